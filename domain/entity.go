package domain

type EntityCategory string

const (
	CategoryDate         EntityCategory = "date"
	CategoryAmount       EntityCategory = "amount"
	CategoryEmail        EntityCategory = "email"
	CategoryPhone        EntityCategory = "phone"
	CategoryName         EntityCategory = "name"
	CategoryPlace        EntityCategory = "place"
	CategoryOrganization EntityCategory = "organization"
)

// Categories lists every entity category in a fixed, stable order.
var Categories = []EntityCategory{
	CategoryDate,
	CategoryAmount,
	CategoryEmail,
	CategoryPhone,
	CategoryName,
	CategoryPlace,
	CategoryOrganization,
}

// EntitySet holds the pattern-matched candidates of one document.
// Values keep first-occurrence order and duplicates within a category
// are allowed; deduplication is an index/scorer concern.
type EntitySet struct {
	Dates         []string `json:"dates"`
	Amounts       []string `json:"amounts"`
	Emails        []string `json:"emails"`
	Phones        []string `json:"phones"`
	Names         []string `json:"names"`
	Places        []string `json:"places"`
	Organizations []string `json:"organizations"`
}

func (e EntitySet) ByCategory(c EntityCategory) []string {
	switch c {
	case CategoryDate:
		return e.Dates
	case CategoryAmount:
		return e.Amounts
	case CategoryEmail:
		return e.Emails
	case CategoryPhone:
		return e.Phones
	case CategoryName:
		return e.Names
	case CategoryPlace:
		return e.Places
	case CategoryOrganization:
		return e.Organizations
	default:
		return nil
	}
}

func (e EntitySet) IsEmpty() bool {
	for _, c := range Categories {
		if len(e.ByCategory(c)) > 0 {
			return false
		}
	}
	return true
}

// Total counts every extracted value across categories.
func (e EntitySet) Total() int {
	total := 0
	for _, c := range Categories {
		total += len(e.ByCategory(c))
	}
	return total
}
