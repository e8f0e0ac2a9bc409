package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/globetrotter/internal/client/client"
	"github.com/dmitrijs2005/globetrotter/internal/common"
)

// getSimpleText and getPassword are swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for email, name and password and creates the account.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Enter name (optional)", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Register(ctx, email, name, password); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Account created, you can login now.")
	return nil
}

// Login prompts for credentials and starts a persisted session.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Login(ctx, email, password); err != nil {
		return err
	}
	a.email = email
	fmt.Fprintln(a.out, "Logged in as", email)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.email = ""
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// Trips lists the user's trips, optionally filtered by status.
func (a *App) Trips(ctx context.Context, args []string) error {
	status := ""
	if len(args) > 0 {
		status = args[0]
	}
	trips, err := a.tripService.List(ctx, status)
	if err != nil {
		return err
	}
	renderTrips(a.out, trips)
	return nil
}

// NewTrip prompts for the trip fields and creates it.
func (a *App) NewTrip(ctx context.Context) error {
	var in client.TripInput
	var err error

	if in.Name, err = getSimpleText(a.reader, "Trip name", a.out); err != nil {
		return err
	}
	if in.Description, err = GetMultiline(a.reader, "Description", a.out); err != nil {
		return err
	}
	if in.StartDate, err = GetDate(a.reader, "Start date", a.out); err != nil {
		return err
	}
	if in.EndDate, err = GetDate(a.reader, "End date", a.out); err != nil {
		return err
	}
	if in.Budget, err = GetFloat(a.reader, "Budget", 0, a.out); err != nil {
		return err
	}
	if in.IsPublic, err = GetYesNo(a.reader, "Public", false, a.out); err != nil {
		return err
	}

	trip, err := a.tripService.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created trip %s (%s)\n", trip.Name, trip.ID)
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "show <trip-id>"); err != nil {
		return err
	}
	it, err := a.tripService.Itinerary(ctx, args[0])
	if err != nil {
		return err
	}
	renderItinerary(a.out, it)
	return nil
}

func (a *App) Budget(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "budget <trip-id>"); err != nil {
		return err
	}
	b, err := a.tripService.Budget(ctx, args[0])
	if err != nil {
		return err
	}
	renderBudget(a.out, b)
	return nil
}

func (a *App) Calendar(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "calendar <trip-id>"); err != nil {
		return err
	}
	days, err := a.tripService.Calendar(ctx, args[0])
	if err != nil {
		return err
	}
	renderCalendar(a.out, days)
	return nil
}

// Export saves the itinerary as csv, gpx or json. Without a file name it
// goes to ./exports under the name the server suggests.
func (a *App) Export(ctx context.Context, args []string) error {
	if err := needArgs(args, 2, "export <trip-id> <csv|gpx|json> [file]"); err != nil {
		return err
	}
	dest := ""
	if len(args) > 2 {
		dest = args[2]
	}
	path, err := a.tripService.Export(ctx, args[0], strings.ToLower(args[1]), dest)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Saved", path)
	return nil
}

// Cover uploads an image file as the trip's cover.
func (a *App) Cover(ctx context.Context, args []string) error {
	if err := needArgs(args, 2, "cover <trip-id> <image-file>"); err != nil {
		return err
	}
	if err := a.tripService.UploadCover(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Cover uploaded.")
	return nil
}
