package board

// List is a named column on the board.
type List struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Card is a single person on the board. A card lives in exactly one list,
// which may change between calls.
type Card struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Desc             string `json:"desc"`
	ListID           string `json:"idList"`
	DateLastActivity string `json:"dateLastActivity"`
}

func listNames(lists []List) []string {
	names := make([]string, len(lists))
	for i, l := range lists {
		names[i] = l.Name
	}
	return names
}

func cardNames(cards []Card) []string {
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.Name
	}
	return names
}
