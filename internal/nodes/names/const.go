package names

const (
	ListFilterToggle = "ListFilterToggle"
	ListFilterInput  = "ListFilterInput"
	ListFilterOutput = "ListFilterOutput"
)

const Category = "list/filtering"
