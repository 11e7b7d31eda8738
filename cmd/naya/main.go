package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"naya-cli/internal/app"
	"naya-cli/internal/config"
	"naya-cli/internal/naya"
	"naya-cli/internal/photo"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	// A .env in the working directory can provide NAYA_* overrides.
	godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates a NayaApp. The caller must defer app.Close().
// command identifies the CLI command being run (e.g. "login", "feed").
func newApp(command string) (*app.NayaApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewNayaApp(cfg, command)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// promptPassword reads a password from the terminal without echo.
func promptPassword(label string) (string, error) {
	fmt.Printf("%s: ", label)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(raw), nil
}

// loadPhoto reads and prepares an image file for upload.
func loadPhoto(path string) (photo.Prepared, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return photo.Prepared{}, fmt.Errorf("reading photo: %w", err)
	}
	return photo.Prepare(data, filepath.Base(path)), nil
}

func printReview(r *naya.Review) {
	place := ""
	if r.Place != nil {
		place = fmt.Sprintf("%s, %s, %s", r.Place.Name, r.Place.City, r.Place.Country)
	}
	author := ""
	if r.User != nil {
		author = r.User.Username
	}
	liked := " "
	if r.LikedByUser {
		liked = "*"
	}
	fmt.Printf("%s %s  %d/5  %-20s  %s  (%d likes, %d comments)\n",
		liked, r.ID, r.Rating, author, r.Title, r.LikesCount, r.CommentsCount)
	if place != "" {
		fmt.Printf("    %s\n", place)
	}
}

func printReviews(reviews []*naya.Review) {
	if len(reviews) == 0 {
		fmt.Println("No reviews found.")
		return
	}
	for _, r := range reviews {
		printReview(r)
	}
}

var rootCmd = &cobra.Command{
	Use:   "naya",
	Short: "Travel journal client",
}

// config command

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		clientID := uuid.New().String()
		cfg := config.NewConfig(clientID, defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Client ID: %s\n", clientID)
		fmt.Printf("Base Dir:  %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Client ID:   %s\n", cfg.ClientID)
		fmt.Printf("Base Dir:    %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:     %s\n", cfg.LogDir)
		fmt.Printf("API Base:    %s\n", cfg.APIBase)
		fmt.Printf("Cred Store:  %s (%s)\n", cfg.Credentials.Type, cfg.Credentials.Path)
		return nil
	},
}

var configSetAPICmd = &cobra.Command{
	Use:   "set-api URL",
	Short: "Set and persist the API base URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("config set-api")
		if err != nil {
			return err
		}
		defer a.Close()

		normalized, err := a.BaseURL().Set(args[0], true)
		if err != nil {
			return err
		}
		fmt.Printf("API base set to %s\n", normalized)
		return nil
	},
}

var configResetAPICmd = &cobra.Command{
	Use:   "reset-api",
	Short: "Forget the stored API base URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("config reset-api")
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Printf("API base reset to %s\n", a.BaseURL().Reset())
		return nil
	},
}

// session commands

var registerCmd = &cobra.Command{
	Use:   "register USERNAME EMAIL",
	Short: "Create a new account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := promptPassword("Password")
		if err != nil {
			return err
		}
		confirm, err := promptPassword("Confirm password")
		if err != nil {
			return err
		}
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}

		a, err := newApp("register")
		if err != nil {
			return err
		}
		defer a.Close()

		message, err := a.Service().Register(cmd.Context(), args[0], args[1], password)
		if err != nil {
			return err
		}
		fmt.Println(message)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login LOGIN",
	Short: "Log in with username or email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := promptPassword("Password")
		if err != nil {
			return err
		}

		a, err := newApp("login")
		if err != nil {
			return err
		}
		defer a.Close()

		user, err := a.Service().Login(cmd.Context(), args[0], password)
		if err != nil {
			return err
		}
		fmt.Printf("Logged in as %s\n", user.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear stored tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("logout")
		if err != nil {
			return err
		}
		defer a.Close()

		a.Service().Logout()
		fmt.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("whoami")
		if err != nil {
			return err
		}
		defer a.Close()

		if !a.Session().IsAuthenticated() {
			fmt.Println("Not logged in.")
			return nil
		}
		if u := a.Session().CurrentUser(); u != nil {
			fmt.Printf("Logged in as %s (%s)\n", u.Username, u.ID)
		} else {
			fmt.Println("Logged in (user details not cached; run `naya profile show`).")
		}
		fmt.Printf("API base: %s\n", a.BaseURL().Current())
		return nil
	},
}

// profile command

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show profile, stats and your reviews",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("profile show")
		if err != nil {
			return err
		}
		defer a.Close()

		view, err := a.Service().LoadProfile(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("%s", view.User.Username)
		if view.User.Email != "" {
			fmt.Printf(" <%s>", view.User.Email)
		}
		fmt.Println()
		if view.User.Bio != "" {
			fmt.Println(view.User.Bio)
		}
		if view.Stats != nil {
			fmt.Printf("reviews: %d  photos: %d  likes given: %d  likes received: %d\n",
				view.Stats.ReviewsCount, view.Stats.PhotosCount, view.Stats.LikesGiven, view.Stats.LikesGotten)
		}

		fmt.Printf("\nYour reviews (%d):\n", len(view.Posted))
		printReviews(view.Posted)

		fmt.Printf("\nLiked reviews (%d of %d):\n", len(view.Liked), view.LikedTotal)
		printReviews(view.Liked)
		return nil
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update username or bio",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		bio, _ := cmd.Flags().GetString("bio")
		if username == "" && bio == "" {
			return fmt.Errorf("nothing to update: pass --username and/or --bio")
		}

		a, err := newApp("profile update")
		if err != nil {
			return err
		}
		defer a.Close()

		message, err := a.Service().UpdateProfile(cmd.Context(), naya.ProfileUpdate{
			Username: username,
			Bio:      bio,
		})
		if err != nil {
			return err
		}
		fmt.Println(message)
		return nil
	},
}

var profileAvatarCmd = &cobra.Command{
	Use:   "avatar FILE",
	Short: "Upload a profile photo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prepared, err := loadPhoto(args[0])
		if err != nil {
			return err
		}

		a, err := newApp("profile avatar")
		if err != nil {
			return err
		}
		defer a.Close()

		message, err := a.Service().UpdateAvatar(cmd.Context(), naya.AvatarUpload{
			Data:     prepared.Data,
			Filename: prepared.Filename,
		})
		if err != nil {
			return err
		}
		fmt.Println(message)
		return nil
	},
}

var profilePasswordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change your password",
	RunE: func(cmd *cobra.Command, args []string) error {
		oldPassword, err := promptPassword("Current password")
		if err != nil {
			return err
		}
		newPassword, err := promptPassword("New password")
		if err != nil {
			return err
		}
		confirm, err := promptPassword("Confirm new password")
		if err != nil {
			return err
		}
		if newPassword != confirm {
			return fmt.Errorf("passwords do not match")
		}

		a, err := newApp("profile password")
		if err != nil {
			return err
		}
		defer a.Close()

		message, err := a.Service().ChangePassword(cmd.Context(), oldPassword, newPassword)
		if err != nil {
			return err
		}
		fmt.Println(message)
		return nil
	},
}

var profileDeactivateCmd = &cobra.Command{
	Use:   "deactivate",
	Short: "Deactivate your account",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("deactivation is permanent: re-run with --yes to confirm")
		}

		a, err := newApp("profile deactivate")
		if err != nil {
			return err
		}
		defer a.Close()

		message, err := a.Service().Deactivate(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(message)
		return nil
	},
}

var profileStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show your counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("profile stats")
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.Service().Stats(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Reviews:        %d\n", stats.ReviewsCount)
		fmt.Printf("Photos:         %d\n", stats.PhotosCount)
		fmt.Printf("Likes given:    %d\n", stats.LikesGiven)
		fmt.Printf("Likes received: %d\n", stats.LikesGotten)
		return nil
	},
}

// user command

var userCmd = &cobra.Command{
	Use:   "user USER_ID",
	Short: "Show another traveller's public profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("user")
		if err != nil {
			return err
		}
		defer a.Close()

		view, err := a.Service().LoadPublicProfile(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if view.Profile != nil {
			fmt.Println(view.Profile.Username)
			if view.Profile.Bio != "" {
				fmt.Println(view.Profile.Bio)
			}
		}
		fmt.Printf("\nReviews (%d):\n", len(view.Reviews))
		printReviews(view.Reviews)
		return nil
	},
}

// feed command

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Browse the review feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		city, _ := cmd.Flags().GetString("city")
		country, _ := cmd.Flags().GetString("country")
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("feed")
		if err != nil {
			return err
		}
		defer a.Close()

		reviews, err := a.Service().LoadFeed(cmd.Context(), naya.ReviewFilter{
			Search:  search,
			City:    city,
			Country: country,
			Limit:   limit,
		})
		if err != nil {
			return err
		}
		printReviews(reviews)
		return nil
	},
}

// map command

var mapCmd = &cobra.Command{
	Use:   "map SEARCH",
	Short: "List reviews matching a map search",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("map")
		if err != nil {
			return err
		}
		defer a.Close()

		reviews, err := a.Service().LoadMapFeed(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, r := range reviews {
			if r.Place != nil && r.Place.Latitude != nil && r.Place.Longitude != nil {
				fmt.Printf("%.5f,%.5f  ", *r.Place.Latitude, *r.Place.Longitude)
			}
			printReview(r)
		}
		if len(reviews) == 0 {
			fmt.Println("No reviews found.")
		}
		return nil
	},
}

// review command

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Manage reviews",
}

var reviewShowCmd = &cobra.Command{
	Use:   "show REVIEW_ID",
	Short: "Show one review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("review show")
		if err != nil {
			return err
		}
		defer a.Close()

		review, err := a.Service().ShowReview(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		printReview(review)
		fmt.Println()
		fmt.Println(review.Content)
		for _, p := range review.Photos {
			fmt.Printf("photo %s  %s  %s\n", p.ID, p.FileURL, p.Caption)
		}
		return nil
	},
}

var reviewCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish a review",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		content, _ := cmd.Flags().GetString("content")
		rating, _ := cmd.Flags().GetInt("rating")
		visitDate, _ := cmd.Flags().GetString("date")
		placeID, _ := cmd.Flags().GetString("place-id")
		placeName, _ := cmd.Flags().GetString("place")
		city, _ := cmd.Flags().GetString("city")
		country, _ := cmd.Flags().GetString("country")
		placeDescription, _ := cmd.Flags().GetString("place-description")
		photoPath, _ := cmd.Flags().GetString("photo")
		caption, _ := cmd.Flags().GetString("caption")

		form := naya.ReviewForm{
			Title:     title,
			Content:   content,
			Rating:    rating,
			VisitDate: visitDate,
			Place: naya.PlaceInput{
				ID:          placeID,
				Name:        placeName,
				City:        city,
				Country:     country,
				Description: placeDescription,
			},
		}

		if photoPath != "" {
			prepared, err := loadPhoto(photoPath)
			if err != nil {
				return err
			}
			form.Photo = &naya.PhotoUpload{
				Data:     prepared.Data,
				Filename: prepared.Filename,
				Caption:  caption,
			}
		}

		a, err := newApp("review create")
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.Service().SubmitReview(cmd.Context(), form)
		if err != nil {
			return err
		}

		fmt.Printf("Review published: %s\n", result.Review.ID)
		if result.PhotoErr != nil {
			fmt.Printf("Warning: the review was created but the photo upload failed: %v\n", result.PhotoErr)
			fmt.Printf("Retry with: naya photo upload %s %s\n", result.Review.ID, photoPath)
		}
		return nil
	},
}

var reviewEditCmd = &cobra.Command{
	Use:   "edit REVIEW_ID",
	Short: "Edit a review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		content, _ := cmd.Flags().GetString("content")
		rating, _ := cmd.Flags().GetInt("rating")
		visitDate, _ := cmd.Flags().GetString("date")

		a, err := newApp("review edit")
		if err != nil {
			return err
		}
		defer a.Close()

		review, err := a.Service().EditReview(cmd.Context(), args[0], naya.ReviewDraft{
			Title:     title,
			Content:   content,
			Rating:    rating,
			VisitDate: visitDate,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Review updated: %s\n", review.ID)
		return nil
	},
}

var reviewDeleteCmd = &cobra.Command{
	Use:   "delete REVIEW_ID",
	Short: "Delete a review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("review delete")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Service().DeleteReview(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Review deleted.")
		return nil
	},
}

// like commands

var likeCmd = &cobra.Command{
	Use:   "like REVIEW_ID",
	Short: "Like a review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("like")
		if err != nil {
			return err
		}
		defer a.Close()

		summary, err := a.Service().Like(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Liked. The review now has %d like(s).\n", summary.LikesCount)
		return nil
	},
}

var unlikeCmd = &cobra.Command{
	Use:   "unlike REVIEW_ID",
	Short: "Remove your like from a review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("unlike")
		if err != nil {
			return err
		}
		defer a.Close()

		summary, err := a.Service().Unlike(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Like removed. The review now has %d like(s).\n", summary.LikesCount)
		return nil
	},
}

// comment command

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Manage review comments",
}

var commentListCmd = &cobra.Command{
	Use:   "list REVIEW_ID",
	Short: "List comments on a review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		refresh, _ := cmd.Flags().GetBool("refresh")

		a, err := newApp("comment list")
		if err != nil {
			return err
		}
		defer a.Close()

		comments, total, err := a.Service().Comments(cmd.Context(), args[0], refresh)
		if err != nil {
			return err
		}

		if total == 0 {
			fmt.Println("No comments yet.")
			return nil
		}
		for _, c := range comments {
			author := ""
			if c.User != nil {
				author = c.User.Username
			}
			fmt.Printf("%s  %-20s  %s\n", c.ID, author, c.Content)
		}
		fmt.Printf("%d comment(s)\n", total)
		return nil
	},
}

var commentAddCmd = &cobra.Command{
	Use:   "add REVIEW_ID CONTENT",
	Short: "Comment on a review",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("comment add")
		if err != nil {
			return err
		}
		defer a.Close()

		_, total, err := a.Service().AddComment(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Comment posted. The review now has %d comment(s).\n", total)
		return nil
	},
}

var commentDeleteCmd = &cobra.Command{
	Use:   "delete REVIEW_ID COMMENT_ID",
	Short: "Delete a comment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("comment delete")
		if err != nil {
			return err
		}
		defer a.Close()

		total, err := a.Service().RemoveComment(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Comment deleted. The review now has %d comment(s).\n", total)
		return nil
	},
}

// place command

var placeCmd = &cobra.Command{
	Use:   "place",
	Short: "Search and resolve places",
}

var placeSearchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search places by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		city, _ := cmd.Flags().GetString("city")
		country, _ := cmd.Flags().GetString("country")
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("place search")
		if err != nil {
			return err
		}
		defer a.Close()

		places, err := a.Service().SearchPlaces(cmd.Context(), naya.PlaceQuery{
			Search:  args[0],
			City:    city,
			Country: country,
			Limit:   limit,
		})
		if err != nil {
			return err
		}

		if len(places) == 0 {
			fmt.Println("No places found.")
			return nil
		}
		for _, p := range places {
			fmt.Printf("%s  %s, %s, %s\n", p.ID, p.Name, p.City, p.Country)
		}
		return nil
	},
}

var placeResolveCmd = &cobra.Command{
	Use:   "resolve NAME CITY COUNTRY",
	Short: "Find or create a place, printing its id",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")

		a, err := newApp("place resolve")
		if err != nil {
			return err
		}
		defer a.Close()

		id, err := a.Service().ResolvePlace(cmd.Context(), naya.PlaceInput{
			Name:        args[0],
			City:        args[1],
			Country:     args[2],
			Description: description,
		})
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}

// photo command

var photoCmd = &cobra.Command{
	Use:   "photo",
	Short: "Manage review photos",
}

var photoUploadCmd = &cobra.Command{
	Use:   "upload REVIEW_ID FILE",
	Short: "Attach a photo to a review",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		caption, _ := cmd.Flags().GetString("caption")

		prepared, err := loadPhoto(args[1])
		if err != nil {
			return err
		}

		a, err := newApp("photo upload")
		if err != nil {
			return err
		}
		defer a.Close()

		uploaded, err := a.Service().UploadPhoto(cmd.Context(), args[0], naya.PhotoUpload{
			Data:     prepared.Data,
			Filename: prepared.Filename,
			Caption:  strings.TrimSpace(caption),
		})
		if err != nil {
			return err
		}
		fmt.Printf("Photo uploaded: %s\n", uploaded.ID)
		return nil
	},
}

var photoDeleteCmd = &cobra.Command{
	Use:   "delete PHOTO_ID",
	Short: "Delete a photo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("photo delete")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Service().DeletePhoto(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Photo deleted.")
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configSetAPICmd)
	configCmd.AddCommand(configResetAPICmd)

	// profile subcommands
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileUpdateCmd)
	profileUpdateCmd.Flags().String("username", "", "New username")
	profileUpdateCmd.Flags().String("bio", "", "New bio")
	profileCmd.AddCommand(profileAvatarCmd)
	profileCmd.AddCommand(profilePasswordCmd)
	profileCmd.AddCommand(profileDeactivateCmd)
	profileDeactivateCmd.Flags().Bool("yes", false, "Confirm deactivation")
	profileCmd.AddCommand(profileStatsCmd)

	// review subcommands
	reviewCmd.AddCommand(reviewShowCmd)
	reviewCmd.AddCommand(reviewCreateCmd)
	reviewCreateCmd.Flags().String("title", "", "Review title")
	reviewCreateCmd.Flags().String("content", "", "Review text (at least 10 characters)")
	reviewCreateCmd.Flags().Int("rating", 0, "Rating from 1 to 5")
	reviewCreateCmd.Flags().String("date", "", "Visit date (YYYY-MM-DD)")
	reviewCreateCmd.Flags().String("place-id", "", "Existing place id")
	reviewCreateCmd.Flags().String("place", "", "Place name")
	reviewCreateCmd.Flags().String("city", "", "Place city")
	reviewCreateCmd.Flags().String("country", "", "Place country")
	reviewCreateCmd.Flags().String("place-description", "", "Description for a newly created place")
	reviewCreateCmd.Flags().String("photo", "", "Photo file to attach")
	reviewCreateCmd.Flags().String("caption", "", "Photo caption")
	reviewCmd.AddCommand(reviewEditCmd)
	reviewEditCmd.Flags().String("title", "", "New title")
	reviewEditCmd.Flags().String("content", "", "New text")
	reviewEditCmd.Flags().Int("rating", 0, "New rating")
	reviewEditCmd.Flags().String("date", "", "New visit date")
	reviewCmd.AddCommand(reviewDeleteCmd)

	// comment subcommands
	commentCmd.AddCommand(commentListCmd)
	commentListCmd.Flags().Bool("refresh", false, "Bypass the local comment cache")
	commentCmd.AddCommand(commentAddCmd)
	commentCmd.AddCommand(commentDeleteCmd)

	// place subcommands
	placeCmd.AddCommand(placeSearchCmd)
	placeSearchCmd.Flags().String("city", "", "Filter by city")
	placeSearchCmd.Flags().String("country", "", "Filter by country")
	placeSearchCmd.Flags().Int("limit", 10, "Maximum results")
	placeCmd.AddCommand(placeResolveCmd)
	placeResolveCmd.Flags().String("description", "", "Description for a newly created place")

	// photo subcommands
	photoCmd.AddCommand(photoUploadCmd)
	photoUploadCmd.Flags().String("caption", "", "Photo caption")
	photoCmd.AddCommand(photoDeleteCmd)

	// feed flags
	feedCmd.Flags().String("search", "", "Full-text search")
	feedCmd.Flags().String("city", "", "Filter by city")
	feedCmd.Flags().String("country", "", "Filter by country")
	feedCmd.Flags().Int("limit", 20, "Maximum results")

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(mapCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(likeCmd)
	rootCmd.AddCommand(unlikeCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(placeCmd)
	rootCmd.AddCommand(photoCmd)
}
