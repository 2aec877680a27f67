package models

// ItemResponse услуга или дополнительная опция каталога
type ItemResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
	PriceCents      int64  `json:"priceCents"`
	PriceFormatted  string `json:"priceFormatted"`
}

// CatalogResponse публичный каталог услуг
type CatalogResponse struct {
	Services               []ItemResponse `json:"services"`
	AddOns                 []ItemResponse `json:"addOns"`
	Currency               string         `json:"currency"`
	TimeZone               string         `json:"timezone"`
	SlotGranularityMinutes int            `json:"slotGranularityMinutes"`
}
