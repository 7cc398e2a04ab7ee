package schema

import "github.com/hamba/avro/v2"

// AvroEncodeFn adapts a parsed avro schema to the encode side of a
// registry serde.
func AvroEncodeFn(s avro.Schema) func(v any) ([]byte, error) {
	return func(v any) ([]byte, error) {
		return avro.Marshal(s, v)
	}
}

// AvroDecodeFn adapts a parsed avro schema to the decode side of a
// registry serde.
func AvroDecodeFn(s avro.Schema) func([]byte, any) error {
	return func(data []byte, v any) error {
		return avro.Unmarshal(s, data, v)
	}
}
