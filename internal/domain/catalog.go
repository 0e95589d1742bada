package domain

import "fmt"

// Named is the shape shared by the flat lookup entities: Country,
// AirplaneType and AirCompany are all a unique name with an id.
type Named struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type City struct {
	ID          int64
	Name        string
	CountryID   *int64
	CountryName string
}

type Crew struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (c Crew) FullName() string {
	return fmt.Sprintf("%s %s", c.FirstName, c.LastName)
}

type Airport struct {
	ID        int64
	Name      string
	CityID    *int64
	CityName  string
	ImagePath string
}

type Route struct {
	ID              int64
	SourceID        *int64
	SourceName      string
	DestinationID   *int64
	DestinationName string
	Distance        int
}

// Display renders the route the way flight lists show it.
func (r Route) Display() string {
	return fmt.Sprintf("%s - %s", r.SourceName, r.DestinationName)
}

// RouteDetail nests full airport records for retrieve responses.
type RouteDetail struct {
	ID          int64
	Source      *Airport
	Destination *Airport
	Distance    int
}

// RouteFilter narrows route lists by case-insensitive substring match on
// airport names.
type RouteFilter struct {
	Source      string
	Destination string
}
