package views

// StatCard is the data behind partials/stat_card. Href may be empty.
type StatCard struct {
	Title string
	Value string
	Icon  string
	Color string
	Href  string
}
