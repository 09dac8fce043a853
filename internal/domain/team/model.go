package team

// Club is a club record from the provider search result, kept with its raw fields.
type Club map[string]any

// CompetitionName returns the league label the provider attaches to the club.
func (c Club) CompetitionName() string {
	name, _ := c["competitionName"].(string)
	return name
}

// SearchQuery identifies a club search by free-text name.
type SearchQuery struct {
	TeamName string `query:"team_name" validate:"required"`
}
