package schedule

// WeekPanel is the week detail shown beside the week slider.
type WeekPanel struct {
	Week     int    `json:"week"`
	Label    string `json:"label"`
	Activity string `json:"activity"`
	Meta     string `json:"meta"`
	Parsed   bool   `json:"parsed"`
}
