package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	appLogger "github.com/kelana-travel/kelana/app/logger"
	"github.com/kelana-travel/kelana/config"
	"github.com/kelana-travel/kelana/internal/api/discover"
	"github.com/kelana-travel/kelana/internal/container"
	"github.com/kelana-travel/kelana/internal/types"
)

const usage = `kelana <command> [args]

  register <username> <password>
  login <username> <password>
  logout
  whoami
  search <query>
  explore [-city name] [-sort rating|name] [-page n]
  fav toggle <place-id> | fav list
  trip add <name> <place-id> | trip dates <id> <start> <end> | trip rm <id> | trip list
  review add <place-id> -rating n -title t -text x -photo file
  review rm <place-id> <id> <date> | review list <place-id> | review mine
  theme [light|dark]
  lang [en|id]
`

func main() {
	// Use standard log until slog is configured, in case godotenv fails.
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := appLogger.Setup(cfg.Mode)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	c, err := container.NewContainer(ctx, &cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", slog.Any("error", err))
		os.Exit(1)
	}
	defer c.Close()

	if err := run(ctx, c, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *container.Container, args []string) error {
	if len(args) == 0 {
		fmt.Print(usage)
		return nil
	}

	switch args[0] {
	case "register":
		if len(args) != 3 {
			return fmt.Errorf("usage: register <username> <password>")
		}
		user, err := c.Auth.Register(ctx, args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Printf("registered %s (%s)\n", user.Username, user.ID)
		return nil

	case "login":
		if len(args) != 3 {
			return fmt.Errorf("usage: login <username> <password>")
		}
		user, err := c.Auth.Login(ctx, args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s\n", user.Username)
		return nil

	case "logout":
		return c.Auth.Logout(ctx)

	case "whoami":
		user, err := c.Auth.CurrentUser(ctx)
		if err != nil {
			return err
		}
		if user == nil {
			fmt.Println("not logged in")
			return nil
		}
		fmt.Printf("%s (%s)\n", user.Username, user.ID)
		return nil

	case "search":
		if len(args) != 2 {
			return fmt.Errorf("usage: search <query>")
		}
		lang, err := currentLanguage(ctx, c)
		if err != nil {
			return err
		}
		for _, e := range discover.Search(c.Catalog.Flatten(lang), args[1]) {
			if e.Kind == types.EntryCity {
				fmt.Printf("city   %s\n", e.Name)
			} else {
				fmt.Printf("place  %-30s %s\n", e.Name, e.Ref.String())
			}
		}
		return nil

	case "explore":
		return runExplore(ctx, c, args[1:])

	case "fav":
		return runFav(ctx, c, args[1:])

	case "trip":
		return runTrip(ctx, c, args[1:])

	case "review":
		return runReview(ctx, c, args[1:])

	case "theme":
		userID, _, err := sessionInfo(ctx, c)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			theme, err := c.Prefs.Theme(ctx, userID)
			if err != nil {
				return err
			}
			fmt.Println(theme)
			return nil
		}
		return c.Prefs.SetTheme(ctx, userID, args[1])

	case "lang":
		userID, _, err := sessionInfo(ctx, c)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			lang, err := c.Prefs.Language(ctx, userID)
			if err != nil {
				return err
			}
			fmt.Println(lang)
			return nil
		}
		return c.Prefs.SetLanguage(ctx, userID, args[1])

	default:
		fmt.Print(usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runExplore(ctx context.Context, c *container.Container, args []string) error {
	fs := flag.NewFlagSet("explore", flag.ContinueOnError)
	city := fs.String("city", discover.AllCities, "filter by city name")
	sortKey := fs.String("sort", "rating", "sort key: rating or name")
	page := fs.Int("page", 1, "page number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	lang, err := currentLanguage(ctx, c)
	if err != nil {
		return err
	}

	places := discover.FilterByCity(c.Catalog.Places(), *city)
	places = discover.Sort(places, discover.SortKey(*sortKey), lang)
	result := discover.Paginate(places, *page, c.Config.App.PageSize)

	for _, p := range result.Items {
		fmt.Printf("%-30s %-12s %.1f  %s\n", p.Name.Resolve(lang), p.City, p.Rating, p.Ref.String())
	}
	fmt.Printf("page %d of %d\n", result.Page, result.TotalPages)
	return nil
}

func runFav(ctx context.Context, c *container.Container, args []string) error {
	userID, _, err := sessionInfo(ctx, c)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: fav toggle <place-id> | fav list")
	}
	switch args[0] {
	case "toggle":
		if len(args) != 2 {
			return fmt.Errorf("usage: fav toggle <place-id>")
		}
		ref, ok := types.ParsePlaceRef(args[1])
		if !ok {
			return fmt.Errorf("place id %q: %w", args[1], types.ErrNotFound)
		}
		state, err := c.Favorites.Toggle(ctx, userID, ref)
		if err != nil {
			return err
		}
		fmt.Println("favorited:", state)
		return nil
	case "list":
		lang, err := currentLanguage(ctx, c)
		if err != nil {
			return err
		}
		places, err := c.Favorites.List(ctx, userID)
		if err != nil {
			return err
		}
		for _, p := range places {
			fmt.Printf("%-30s %s\n", p.Name.Resolve(lang), p.Ref.String())
		}
		return nil
	default:
		return fmt.Errorf("usage: fav toggle <place-id> | fav list")
	}
}

func runTrip(ctx context.Context, c *container.Container, args []string) error {
	userID, _, err := sessionInfo(ctx, c)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: trip add|dates|rm|list")
	}
	switch args[0] {
	case "add":
		if len(args) != 3 {
			return fmt.Errorf("usage: trip add <name> <place-id>")
		}
		trip, err := c.Trips.Create(ctx, userID, args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Printf("trip %d created\n", trip.ID)
		return nil
	case "dates":
		if len(args) != 4 {
			return fmt.Errorf("usage: trip dates <id> <start> <end> (YYYY-MM-DD, - for none)")
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("bad trip id %q", args[1])
		}
		start, err := parseDateArg(args[2])
		if err != nil {
			return err
		}
		end, err := parseDateArg(args[3])
		if err != nil {
			return err
		}
		return c.Trips.SetDates(ctx, userID, id, start, end)
	case "rm":
		if len(args) != 2 {
			return fmt.Errorf("usage: trip rm <id>")
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("bad trip id %q", args[1])
		}
		return c.Trips.Delete(ctx, userID, id)
	case "list":
		trips, err := c.Trips.List(ctx, userID)
		if err != nil {
			return err
		}
		for _, t := range trips {
			fmt.Printf("%d  %-20s %-30s %s .. %s\n",
				t.ID, t.Name, t.DestinationID, formatDate(t.StartDate), formatDate(t.EndDate))
		}
		return nil
	default:
		return fmt.Errorf("usage: trip add|dates|rm|list")
	}
}

func runReview(ctx context.Context, c *container.Container, args []string) error {
	userID, username, err := sessionInfo(ctx, c)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: review add|rm|list|mine")
	}
	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("review add", flag.ContinueOnError)
		rating := fs.Int("rating", 0, "rating 1-5")
		title := fs.String("title", "", "review title")
		text := fs.String("text", "", "review text")
		photo := fs.String("photo", "", "path to a photo file")
		if len(args) < 2 {
			return fmt.Errorf("usage: review add <place-id> -rating n -title t -text x -photo file")
		}
		if err := fs.Parse(args[2:]); err != nil {
			return err
		}
		ref, ok := types.ParsePlaceRef(args[1])
		if !ok {
			return fmt.Errorf("place id %q: %w", args[1], types.ErrNotFound)
		}
		dataURL, err := photoDataURL(*photo)
		if err != nil {
			return err
		}
		review, err := c.Reviews.Submit(ctx, ref, types.Review{
			AuthorID: userID,
			Author:   username,
			Rating:   *rating,
			Title:    *title,
			Text:     *text,
			Photo:    dataURL,
		}, nil)
		if err != nil {
			return err
		}
		fmt.Printf("review %d saved\n", review.ID)
		return nil
	case "rm":
		if len(args) != 4 {
			return fmt.Errorf("usage: review rm <place-id> <id> <date>")
		}
		ref, ok := types.ParsePlaceRef(args[1])
		if !ok {
			return fmt.Errorf("place id %q: %w", args[1], types.ErrNotFound)
		}
		id, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("bad review id %q", args[2])
		}
		return c.Reviews.Delete(ctx, ref, types.Review{ID: id, Date: args[3]})
	case "list":
		if len(args) != 2 {
			return fmt.Errorf("usage: review list <place-id>")
		}
		ref, ok := types.ParsePlaceRef(args[1])
		if !ok {
			return fmt.Errorf("place id %q: %w", args[1], types.ErrNotFound)
		}
		reviews, err := c.Reviews.ListForPlace(ctx, ref)
		if err != nil {
			return err
		}
		for _, r := range reviews {
			fmt.Printf("%d  %s  %d/5  %-15s %s\n", r.ID, r.Date, r.Rating, r.Author, r.Title)
		}
		return nil
	case "mine":
		reviews, err := c.Reviews.ListForUser(ctx, userID)
		if err != nil {
			return err
		}
		for _, r := range reviews {
			fmt.Printf("%d  %s  %d/5  %-30s %s\n", r.ID, r.Date, r.Rating, r.PlaceID, r.Title)
		}
		return nil
	default:
		return fmt.Errorf("usage: review add|rm|list|mine")
	}
}

// sessionInfo returns the current user's id and username, empty for guests.
func sessionInfo(ctx context.Context, c *container.Container) (string, string, error) {
	user, err := c.Auth.CurrentUser(ctx)
	if err != nil {
		return "", "", err
	}
	if user == nil {
		return "", "", nil
	}
	return user.ID, user.Username, nil
}

func currentLanguage(ctx context.Context, c *container.Container) (string, error) {
	userID, _, err := sessionInfo(ctx, c)
	if err != nil {
		return "", err
	}
	return c.Prefs.Language(ctx, userID)
}

func parseDateArg(s string) (*time.Time, error) {
	if s == "-" || s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("bad date %q, want YYYY-MM-DD", s)
	}
	return &t, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "(no date)"
	}
	return t.Format("2006-01-02")
}

func photoDataURL(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read photo %q: %w", path, err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(raw), nil
}
