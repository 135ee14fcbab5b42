package view

type ShopPage struct {
	Items      []ProductCard `json:"items"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
	Total      int           `json:"total"`
	PerPage    int           `json:"perPage"`
}

type CategoryOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PriceRangeOption struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}
