package models

// StandingRow — одна строка таблицы группового этапа после применения
// тай-брейков.
type StandingRow struct {
	Position     int           `json:"position"`
	Registration *Registration `json:"registration"`
	Played       int           `json:"played"`
	Won          int           `json:"won"`
	Lost         int           `json:"lost"`
	GroupPoints  int           `json:"group_points"`
	SetDiff      int           `json:"set_diff"`
	PointDiff    int           `json:"point_diff"`
}
