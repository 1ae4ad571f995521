package dto

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type DistanceResponse struct {
	From        Coordinates `json:"from"`
	To          Coordinates `json:"to"`
	Distance    float64     `json:"distance"`
	Unit        string      `json:"unit"`
	Algorithm   string      `json:"algorithm"`
	Approximate bool        `json:"approximate"`
}

type AddressDistanceResponse struct {
	FromAddress string      `json:"from_address"`
	ToAddress   string      `json:"to_address"`
	From        Coordinates `json:"from"`
	To          Coordinates `json:"to"`
	Provider    string      `json:"provider"`
	Distance    float64     `json:"distance"`
	Unit        string      `json:"unit"`
	Algorithm   string      `json:"algorithm"`
}

type CentroidRequest struct {
	// Each point is [lat, lon].
	Points    [][2]float64 `json:"points"`
	BatchSize int          `json:"batch_size"`
}

type CentroidResponse struct {
	Centroid Coordinates `json:"centroid"`
	Count    int         `json:"count"`
}

type GeocodeResponse struct {
	Address  string  `json:"address"`
	Provider string  `json:"provider"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
}
