package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/globetrotter/internal/server/models"
	"github.com/dmitrijs2005/globetrotter/internal/server/validate"
	"github.com/tkrajina/gpxgo/gpx"
)

const (
	ExportCSV  = "csv"
	ExportGPX  = "gpx"
	ExportJSON = "json"
)

var exportFormats = []string{ExportCSV, ExportGPX, ExportJSON}

type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ExportService struct {
	trips *TripService
}

func NewExportService(trips *TripService) *ExportService {
	return &ExportService{trips: trips}
}

func (s *ExportService) Export(ctx context.Context, userID, tripID, format string) (*ExportFile, error) {
	format = strings.ToLower(format)
	if err := validate.New().OneOf("format", format, exportFormats...).Err(); err != nil {
		return nil, err
	}

	it, err := s.trips.GetItinerary(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	var (
		data        []byte
		contentType string
	)
	switch format {
	case ExportCSV:
		data, err = renderCSV(it)
		contentType = "text/csv"
	case ExportGPX:
		data, err = renderGPX(it)
		contentType = "application/gpx+xml"
	default:
		data, err = json.MarshalIndent(it, "", "  ")
		contentType = "application/json"
	}
	if err != nil {
		return nil, fmt.Errorf("error rendering %s export: %w", format, err)
	}

	return &ExportFile{
		Filename:    exportFilename(it.Trip.Name, format),
		ContentType: contentType,
		Data:        data,
	}, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-z0-9]+`)

func exportFilename(name, ext string) string {
	base := strings.Trim(unsafeFilenameChars.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if base == "" {
		base = "trip"
	}
	return base + "." + ext
}

var csvHeader = []string{"date", "type", "city", "title", "cost"}

// kind order within a day: arrive, travel, sleep, do.
var csvKindOrder = map[string]int{"stop": 0, "transport": 1, "accommodation": 2, "activity": 3}

func renderCSV(it *models.Itinerary) ([]byte, error) {
	cityOf := make(map[string]string, len(it.Stops))
	var rows [][]string
	for _, st := range it.Stops {
		cityOf[st.ID] = st.CityName
		rows = append(rows, []string{
			st.StartDate.String(), "stop", st.CityName,
			fmt.Sprintf("%s, %s (%d nights)", st.CityName, st.Country, st.Nights()), "0.00",
		})
		for _, a := range st.Accommodations {
			rows = append(rows, []string{a.CheckIn.String(), "accommodation", st.CityName, a.Name, money(a.Total())})
		}
		for _, a := range st.Activities {
			title := a.ActivityName
			if a.StartTime != "" {
				title = a.StartTime + " " + title
			}
			rows = append(rows, []string{a.ScheduledDate.String(), "activity", st.CityName, title, money(a.Cost)})
		}
	}
	for _, leg := range it.Transports {
		rows = append(rows, []string{
			leg.DepartureTime.UTC().Format("2006-01-02"), "transport",
			cityOf[leg.FromStopID] + " -> " + cityOf[leg.ToStopID], leg.Mode, money(leg.Cost),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i][0] != rows[j][0] {
			return rows[i][0] < rows[j][0]
		}
		return csvKindOrder[rows[i][1]] < csvKindOrder[rows[j][1]]
	})

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// renderGPX emits one waypoint per stop and a route visiting them in
// sequence order.
func renderGPX(it *models.Itinerary) ([]byte, error) {
	g := &gpx.GPX{
		Version:     "1.1",
		Creator:     "globetrotter",
		Name:        it.Trip.Name,
		Description: it.Trip.Description,
	}
	route := gpx.GPXRoute{Name: it.Trip.Name}
	for _, st := range it.Stops {
		p := gpx.GPXPoint{
			Point:       gpx.Point{Latitude: st.Latitude, Longitude: st.Longitude},
			Timestamp:   st.StartDate.Time(),
			Name:        st.CityName,
			Description: fmt.Sprintf("%s to %s", st.StartDate, st.EndDate),
		}
		g.Waypoints = append(g.Waypoints, p)
		route.Points = append(route.Points, p)
	}
	if len(route.Points) > 0 {
		g.Routes = append(g.Routes, route)
	}
	return g.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
}
