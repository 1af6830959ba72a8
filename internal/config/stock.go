package config

type Stock struct {
	// SerializeConsumption takes an in-process lock per product around
	// consumption. Off by default: concurrent consumers may race on the same lots.
	SerializeConsumption bool   `env:"STOCK_SERIALIZE_CONSUMPTION" envDefault:"false"`
	UnknownProductName   string `env:"STOCK_UNKNOWN_PRODUCT_NAME" envDefault:"Unknown"`
}
