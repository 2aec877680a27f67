package domain

// Service основная услуга детейлинга (мойка, полировка, химчистка салона)
type Service struct {
	ID              string `validate:"required,max=64"`
	Name            string `validate:"required,max=200"`
	DurationMinutes int    `validate:"gt=0,lte=720"`
	PriceCents      int64  `validate:"gte=0"`
}

// AddOn дополнительная опция к услуге
type AddOn struct {
	ID              string `validate:"required,max=64"`
	Name            string `validate:"required,max=200"`
	DurationMinutes int    `validate:"gte=0,lte=720"`
	PriceCents      int64  `validate:"gte=0"`
}
