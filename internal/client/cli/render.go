package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/globetrotter/internal/server/models"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func renderTrips(w io.Writer, trips []models.Trip) {
	if len(trips) == 0 {
		fmt.Fprintln(w, "No trips.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tFROM\tTO\tBUDGET\tPUBLIC")
	for _, t := range trips {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\t%t\n", t.ID, t.Name, t.StartDate, t.EndDate, t.Budget, t.IsPublic)
	}
	tw.Flush()
}

func renderItinerary(w io.Writer, it *models.Itinerary) {
	t := it.Trip
	fmt.Fprintf(w, "%s  %s .. %s (%d days)\n", t.Name, t.StartDate, t.EndDate, t.Days())
	if t.Description != "" {
		fmt.Fprintln(w, t.Description)
	}
	if t.CoverURL != "" {
		fmt.Fprintln(w, "Cover:", t.CoverURL)
	}

	names := make(map[string]string, len(it.Stops))
	for _, s := range it.Stops {
		names[s.ID] = s.CityName

		fmt.Fprintf(w, "\n%d. %s, %s  %s .. %s (%d nights)\n", s.Sequence, s.CityName, s.Country, s.StartDate, s.EndDate, s.Nights())
		for _, acc := range s.Accommodations {
			fmt.Fprintf(w, "   stay  %s  %s .. %s  %.2f\n", acc.Name, acc.CheckIn, acc.CheckOut, acc.Total())
		}
		for _, act := range s.Activities {
			fmt.Fprintf(w, "   do    %s %s  %s  %.2f\n", act.ScheduledDate, act.StartTime, act.ActivityName, act.Cost)
		}
	}

	if len(it.Transports) > 0 {
		fmt.Fprintln(w, "\nTransport:")
		for _, leg := range it.Transports {
			fmt.Fprintf(w, "   %s -> %s  %s  %s  %.2f\n",
				names[leg.FromStopID], names[leg.ToStopID], leg.Mode,
				leg.DepartureTime.UTC().Format("2006-01-02 15:04"), leg.Cost)
		}
	}
}

func renderBudget(w io.Writer, b *models.Budget) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Accommodation\t%.2f\n", b.Accommodation)
	fmt.Fprintf(tw, "Activities\t%.2f\n", b.Activities)
	fmt.Fprintf(tw, "Transport\t%.2f\n", b.Transport)
	fmt.Fprintf(tw, "Total\t%.2f\n", b.Total)
	fmt.Fprintf(tw, "Budget\t%.2f\n", b.Budget)
	fmt.Fprintf(tw, "Remaining\t%.2f\n", b.Remaining)
	fmt.Fprintf(tw, "Per day\t%.2f (%d days)\n", b.PerDay, b.Days)
	tw.Flush()

	if b.OverBudget {
		fmt.Fprintln(w, "OVER BUDGET")
	}

	if len(b.Stops) > 0 {
		fmt.Fprintln(w)
		tw = newTable(w)
		fmt.Fprintln(tw, "CITY\tNIGHTS\tSTAY\tACTIVITIES")
		for _, s := range b.Stops {
			fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\n", s.CityName, s.Nights, s.Accommodation, s.Activities)
		}
		tw.Flush()
	}
}

func renderCalendar(w io.Writer, days []models.CalendarDay) {
	for _, d := range days {
		where := "-"
		if d.Stop != nil {
			where = d.Stop.CityName
		}
		fmt.Fprintf(w, "%s  %s\n", d.Date, where)

		for _, acc := range d.CheckIns {
			fmt.Fprintf(w, "   check-in   %s\n", acc.Name)
		}
		for _, acc := range d.CheckOuts {
			fmt.Fprintf(w, "   check-out  %s\n", acc.Name)
		}
		for _, leg := range d.Departures {
			fmt.Fprintf(w, "   depart     %s %s\n", leg.Mode, leg.DepartureTime.UTC().Format("15:04"))
		}
		for _, act := range d.Activities {
			fmt.Fprintf(w, "   %s\n", strings.TrimSpace(act.StartTime+" "+act.ActivityName))
		}
	}
}
