package schema

const OrderPlacedSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront",
	"name": "order_placed",
	"fields": [
		{"name": "order_id", "type": "string"},
		{"name": "subtotal", "type": "long"},
		{"name": "lines", "type": {
			"type": "array",
			"items": {
				"type": "record",
				"name": "order_line",
				"fields": [
					{"name": "product_id", "type": "int"},
					{"name": "product_name", "type": "string"},
					{"name": "variant", "type": "string"},
					{"name": "quantity", "type": "int"},
					{"name": "total", "type": "long"}
				]
			}
		}}
	]
}`

type (
	OrderPlacedV1 struct {
		OrderID  string        `avro:"order_id"`
		Subtotal int64         `avro:"subtotal"`
		Lines    []OrderLineV1 `avro:"lines"`
	}

	OrderLineV1 struct {
		ProductID   int    `avro:"product_id"`
		ProductName string `avro:"product_name"`
		Variant     string `avro:"variant"`
		Quantity    int    `avro:"quantity"`
		Total       int64  `avro:"total"`
	}
)
