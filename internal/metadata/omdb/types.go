package omdb

// Raw API response types.

// rawTitle is the payload of title (t=) and identifier (i=) lookups.
type rawTitle struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`
	Title    string `json:"Title"`
	Year     string `json:"Year"`
	Rated    string `json:"Rated"`
	Runtime  string `json:"Runtime"`
	Genre    string `json:"Genre"`
	Director string `json:"Director"`
	Plot     string `json:"Plot"`
	Poster   string `json:"Poster"`
	IMDbID   string `json:"imdbID"`
	Type     string `json:"Type"`
}

// rawSearch is the payload of search (s=) lookups.
type rawSearch struct {
	Response     string          `json:"Response"`
	Error        string          `json:"Error"`
	TotalResults string          `json:"totalResults"`
	Search       []rawSearchItem `json:"Search"`
}

type rawSearchItem struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	IMDbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

const (
	responseTrue         = "True"
	responseFalse        = "False"
	errTooManyResultsMsg = "Too many results."
)
