package catalogapi

// Wire shape of one catalog record. Price and createdAt arrive as
// JSON strings, not numbers.
type product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Model       string `json:"model"`
	Brand       string `json:"brand"`
	CreatedAt   string `json:"createdAt"`
}
