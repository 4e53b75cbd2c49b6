package models

// Recipe difficulty levels derived from total preparation time.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Recipe meal categories inferred from the provider's dish types.
const (
	CategoryBreakfast = "breakfast"
	CategoryLunch     = "lunch"
	CategoryDinner    = "dinner"
	CategorySnack     = "snack"
)

// Recipe is the normalized record returned for recipe-service actions.
// Nutrition values are rounded to the nearest whole unit and default to
// 0 when the provider omits a nutrient. Rating and ReviewCount are nil
// when the provider supplies none - the proxy never fabricates them.
type Recipe struct {
	ID             int      `json:"id"`
	Title          string   `json:"title"`
	Image          string   `json:"image"`
	ReadyInMinutes int      `json:"readyInMinutes"`
	Servings       int      `json:"servings"`
	Calories       int      `json:"calories"`
	Carbs          int      `json:"carbs"`
	Protein        int      `json:"protein"`
	Fat            int      `json:"fat"`
	Fiber          int      `json:"fiber"`
	Sodium         int      `json:"sodium"`
	Sugar          int      `json:"sugar"`
	Category       string   `json:"category"`
	Difficulty     string   `json:"difficulty"`
	SourceURL      string   `json:"sourceUrl"`
	Rating         *float64 `json:"rating"`
	ReviewCount    *int     `json:"reviewCount"`
}
