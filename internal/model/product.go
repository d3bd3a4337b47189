package model

// Commodities is the fixed set of products that can be tracked.
// The names match the "Commodities" values in the dataset the
// forecasting service is trained on, so they are sent verbatim.
var Commodities = []string{
	"Onion",
	"Potato",
	"Tomato",
	"Rice",
	"Wheat",
	"Atta (Wheat)",
	"Gram Dal",
	"Tur/Arhar Dal",
	"Urad Dal",
	"Moong Dal",
	"Masoor Dal",
	"Groundnut Oil (Packed)",
	"Mustard Oil (Packed)",
	"Vanaspati (Packed)",
	"Soya Oil (Packed)",
	"Sunflower Oil (Packed)",
	"Palm Oil (Packed)",
	"Sugar",
	"Gur",
	"Milk",
	"Tea Loose",
	"Salt Pack (Iodised)",
}

var commoditySet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Commodities))
	for _, c := range Commodities {
		m[c] = struct{}{}
	}
	return m
}()

func ValidCommodity(name string) bool {
	_, ok := commoditySet[name]
	return ok
}
