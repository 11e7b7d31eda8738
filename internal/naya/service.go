package naya

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

// NayaService is the orchestration layer between the CLI and the
// client: it owns the multi-step flows (submit review then upload its
// photo, load profile then seed liked state) and keeps the collections
// consistent after every mutation.
type NayaService struct {
	client      *Client
	session     *SessionManager
	places      *PlaceResolver
	collections *ReviewCollections
	comments    *CommentsCache
	logger      Logger
}

func NewNayaService(client *Client, session *SessionManager, places *PlaceResolver, collections *ReviewCollections, comments *CommentsCache, logger Logger) *NayaService {
	return &NayaService{
		client:      client,
		session:     session,
		places:      places,
		collections: collections,
		comments:    comments,
		logger:      logger,
	}
}

// Collections exposes the reconciler for read access (list rendering).
func (s *NayaService) Collections() *ReviewCollections {
	return s.collections
}

// --- session flows ---

// Login authenticates and installs the session.
func (s *NayaService) Login(ctx context.Context, login, password string) (*User, error) {
	result, err := s.client.Login(ctx, Credentials{
		Login:    strings.TrimSpace(login),
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	if result.AccessToken == "" {
		return nil, NewError(KindRequestFailed, "the server did not return an access token")
	}
	s.session.Establish(result.AccessToken, result.RefreshToken, result.User)
	s.logger.Info("logged in", "user", usernameOf(result.User))
	return result.User, nil
}

// Register creates an account. The caller logs in afterwards.
func (s *NayaService) Register(ctx context.Context, username, email, password string) (string, error) {
	message, err := s.client.Register(ctx, Registration{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		Password: password,
	})
	if err != nil {
		return "", err
	}
	if message == "" {
		message = "account created, you can now log in"
	}
	return message, nil
}

// Logout clears the session and every per-user cache.
func (s *NayaService) Logout() {
	s.session.Clear()
	s.collections.Reset()
	s.comments.Reset()
}

// Deactivate disables the account and clears local state.
func (s *NayaService) Deactivate(ctx context.Context) (string, error) {
	message, err := s.client.Deactivate(ctx)
	if err != nil {
		return "", err
	}
	s.Logout()
	if message == "" {
		message = "account deactivated"
	}
	return message, nil
}

// --- feeds ---

// LoadFeed fetches the primary feed, installs it, and re-stamps the
// liked flags from the authoritative set.
func (s *NayaService) LoadFeed(ctx context.Context, filter ReviewFilter) ([]*Review, error) {
	reviews, err := s.client.ListReviews(ctx, filter, false)
	if err != nil {
		return nil, err
	}
	s.collections.ReplaceList(ListFeed, reviews)
	s.collections.ReconcileLikedState()
	return s.collections.List(ListFeed), nil
}

// LoadMapFeed fetches reviews for the map by search term.
func (s *NayaService) LoadMapFeed(ctx context.Context, term string) ([]*Review, error) {
	reviews, err := s.client.ListReviews(ctx, ReviewFilter{Search: strings.TrimSpace(term)}, false)
	if err != nil {
		return nil, err
	}
	s.collections.ReplaceList(ListMap, reviews)
	s.collections.ReconcileLikedState()
	return s.collections.List(ListMap), nil
}

// --- profile ---

// ProfileView bundles everything the profile screen shows.
type ProfileView struct {
	User       *User
	Stats      *UserStats
	Posted     []*Review
	Liked      []*Review
	LikedTotal int
}

// LoadProfile fetches the profile, stats and own reviews together, then
// seeds the liked window and re-stamps every list.
func (s *NayaService) LoadProfile(ctx context.Context) (*ProfileView, error) {
	userID := "me"
	if u := s.session.CurrentUser(); u != nil && u.ID != "" {
		userID = u.ID
	}

	var (
		profile *ProfilePayload
		stats   *UserStats
		posted  []*Review
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = s.client.Profile(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = s.client.Stats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		posted, err = s.client.ListReviews(gctx, ReviewFilter{UserID: userID, Limit: 50}, true)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	user := profile.User
	s.session.UpdateUser(&user)
	s.collections.SeedLikedFromProfile(profile.LikedReviews, profile.LikedReviewsCount)

	// Prefer the detailed listing, fall back to reviews embedded in the
	// profile payload.
	if len(posted) == 0 && len(profile.Reviews) > 0 {
		posted = profile.Reviews
	}
	s.collections.ReplaceList(ListPosted, posted)
	s.collections.ReconcileLikedState()

	return &ProfileView{
		User:       &user,
		Stats:      stats,
		Posted:     s.collections.List(ListPosted),
		Liked:      s.collections.List(ListLiked),
		LikedTotal: s.collections.LikedTotal(),
	}, nil
}

// PublicProfileView bundles another traveller's profile and reviews.
type PublicProfileView struct {
	Profile *PublicProfile
	Reviews []*Review
}

// LoadPublicProfile fetches a user's public profile and their reviews.
func (s *NayaService) LoadPublicProfile(ctx context.Context, userID string) (*PublicProfileView, error) {
	var (
		profile *PublicProfile
		reviews []*Review
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = s.client.PublicProfileFor(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		reviews, err = s.client.ListReviews(gctx, ReviewFilter{UserID: userID, Limit: 50}, false)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.collections.ReplaceList(ListPublicProfile, reviews)
	s.collections.ReconcileLikedState()

	return &PublicProfileView{
		Profile: profile,
		Reviews: s.collections.List(ListPublicProfile),
	}, nil
}

// UpdateProfile pushes edited profile fields and refreshes the cached user.
func (s *NayaService) UpdateProfile(ctx context.Context, update ProfileUpdate) (string, error) {
	message, user, err := s.client.UpdateProfile(ctx, update)
	if err != nil {
		return "", err
	}
	if user != nil {
		s.session.UpdateUser(user)
	}
	if message == "" {
		message = "profile updated"
	}
	return message, nil
}

// AvatarUpload is a prepared profile photo.
type AvatarUpload struct {
	Data     []byte
	Filename string
}

// UpdateAvatar uploads a new profile photo; the whole user record is
// replaced when the server echoes it back.
func (s *NayaService) UpdateAvatar(ctx context.Context, upload AvatarUpload) (string, error) {
	body, contentType, err := EncodeMultipart(nil, "avatar", upload.Filename, upload.Data)
	if err != nil {
		return "", err
	}
	message, user, err := s.client.UpdateAvatar(ctx, body, contentType)
	if err != nil {
		return "", err
	}
	if user != nil && user.ID != "" {
		s.session.UpdateUser(user)
	}
	if message == "" {
		message = "profile photo updated"
	}
	return message, nil
}

// ChangePassword updates the password for the current account.
func (s *NayaService) ChangePassword(ctx context.Context, oldPassword, newPassword string) (string, error) {
	message, err := s.client.ChangePassword(ctx, oldPassword, newPassword)
	if err != nil {
		return "", err
	}
	if message == "" {
		message = "password updated"
	}
	return message, nil
}

// Stats fetches the current user's counters.
func (s *NayaService) Stats(ctx context.Context) (*UserStats, error) {
	return s.client.Stats(ctx)
}

// --- reviews ---

// PhotoUpload is a prepared review photo.
type PhotoUpload struct {
	Data     []byte
	Filename string
	Caption  string
}

// ReviewForm is everything the submit flow needs.
type ReviewForm struct {
	Title     string
	Content   string
	Rating    int
	VisitDate string
	Place     PlaceInput
	Photo     *PhotoUpload
}

// SubmitReviewResult reports the outcome, including the explicit
// partial-success case: review created but photo upload failed.
type SubmitReviewResult struct {
	Review        *Review
	PhotoUploaded bool
	PhotoErr      error
}

// SubmitReview resolves the place, validates the draft, creates the
// review, then uploads the optional photo. A photo failure never rolls
// back or hides the created review.
func (s *NayaService) SubmitReview(ctx context.Context, form ReviewForm) (*SubmitReviewResult, error) {
	placeID, err := s.places.Resolve(ctx, form.Place)
	if err != nil {
		return nil, err
	}

	if form.Rating < 1 || form.Rating > 5 {
		return nil, NewError(KindRequestFailed, "the rating must be between 1 and 5")
	}
	title := strings.TrimSpace(form.Title)
	if title == "" {
		return nil, NewError(KindRequestFailed, "the review title is required")
	}
	content := strings.TrimSpace(form.Content)
	if len(content) < 10 {
		return nil, NewError(KindRequestFailed, "the review must contain at least 10 characters")
	}

	review, err := s.client.CreateReview(ctx, ReviewDraft{
		Title:     title,
		Content:   content,
		Rating:    form.Rating,
		VisitDate: strings.TrimSpace(form.VisitDate),
		PlaceID:   placeID,
	})
	if err != nil {
		return nil, err
	}

	result := &SubmitReviewResult{Review: review}
	if form.Photo != nil && len(form.Photo.Data) > 0 {
		if uploadErr := s.uploadReviewPhoto(ctx, review.ID, form.Photo); uploadErr != nil {
			s.logger.Warn("review created but photo upload failed", "review_id", review.ID, "error", uploadErr)
			result.PhotoErr = uploadErr
		} else {
			result.PhotoUploaded = true
		}
	}

	s.logger.Info("review published", "review_id", review.ID, "place_id", placeID)
	return result, nil
}

func (s *NayaService) uploadReviewPhoto(ctx context.Context, reviewID string, photo *PhotoUpload) error {
	_, err := s.UploadPhoto(ctx, reviewID, *photo)
	return err
}

// UploadPhoto attaches a photo to an existing review.
func (s *NayaService) UploadPhoto(ctx context.Context, reviewID string, photo PhotoUpload) (*Photo, error) {
	fields := map[string]string{
		"review_id": reviewID,
		"caption":   strings.TrimSpace(photo.Caption),
	}
	body, contentType, err := EncodeMultipart(fields, "photo_file", photo.Filename, photo.Data)
	if err != nil {
		return nil, err
	}
	return s.client.UploadPhoto(ctx, body, contentType)
}

// ShowReview fetches one review by id.
func (s *NayaService) ShowReview(ctx context.Context, id string) (*Review, error) {
	return s.client.GetReview(ctx, id)
}

// EditReview updates a review and propagates the new content into every
// list holding a copy.
func (s *NayaService) EditReview(ctx context.Context, id string, draft ReviewDraft) (*Review, error) {
	updated, err := s.client.UpdateReview(ctx, id, draft)
	if err != nil {
		return nil, err
	}
	s.collections.ApplyReviewUpdate(updated)
	return updated, nil
}

// DeleteReview removes a review server-side and from every list.
func (s *NayaService) DeleteReview(ctx context.Context, id string) error {
	if err := s.client.DeleteReview(ctx, id); err != nil {
		return err
	}
	s.collections.RemoveReview(id)
	s.comments.Invalidate(id)
	return nil
}

// --- likes ---

// Like marks a review liked and reconciles every list.
func (s *NayaService) Like(ctx context.Context, id string) (*LikeSummary, error) {
	summary, err := s.client.LikeReview(ctx, id)
	if err != nil {
		return nil, err
	}
	s.collections.ApplyLikeSummary(id, summary.LikesCount, true)
	return summary, nil
}

// Unlike removes a like and reconciles every list.
func (s *NayaService) Unlike(ctx context.Context, id string) (*LikeSummary, error) {
	summary, err := s.client.UnlikeReview(ctx, id)
	if err != nil {
		return nil, err
	}
	s.collections.ApplyLikeSummary(id, summary.LikesCount, false)
	return summary, nil
}

// ToggleLike flips the like state based on the authoritative local set.
func (s *NayaService) ToggleLike(ctx context.Context, id string) (*LikeSummary, error) {
	if s.collections.IsLiked(id) {
		return s.Unlike(ctx, id)
	}
	return s.Like(ctx, id)
}

// --- comments ---

// Comments returns a review's thread, from cache unless force is set.
func (s *NayaService) Comments(ctx context.Context, reviewID string, force bool) ([]Comment, int, error) {
	if !force {
		if comments, total, ok := s.comments.Get(reviewID); ok {
			return comments, total, nil
		}
	}
	comments, total, err := s.client.ListComments(ctx, reviewID, 0, s.session.IsAuthenticated())
	if err != nil {
		return nil, 0, err
	}
	s.comments.Put(reviewID, comments, total)
	s.collections.ApplyCommentCount(reviewID, total)
	return comments, total, nil
}

// AddComment posts a comment, updates the cache in place, and pushes the
// new count to every displayed copy of the review.
func (s *NayaService) AddComment(ctx context.Context, reviewID, content string) (*Comment, int, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, 0, NewError(KindRequestFailed, "the comment cannot be empty")
	}
	comment, err := s.client.CreateComment(ctx, reviewID, content)
	if err != nil {
		return nil, 0, err
	}

	fallback := 0
	if review := s.collections.FindReviewByID(reviewID); review != nil {
		fallback = review.CommentsCount
	}
	total := s.comments.Append(reviewID, *comment, fallback)
	s.collections.ApplyCommentCount(reviewID, total)
	return comment, total, nil
}

// RemoveComment deletes a comment and propagates the new count.
func (s *NayaService) RemoveComment(ctx context.Context, reviewID, commentID string) (int, error) {
	if err := s.client.DeleteComment(ctx, reviewID, commentID); err != nil {
		return 0, err
	}

	total, cached := s.comments.Drop(reviewID, commentID)
	if !cached {
		if review := s.collections.FindReviewByID(reviewID); review != nil && review.CommentsCount > 0 {
			total = review.CommentsCount - 1
		}
	}
	s.collections.ApplyCommentCount(reviewID, total)
	return total, nil
}

// --- places ---

// ResolvePlace exposes the resolver for the place command.
func (s *NayaService) ResolvePlace(ctx context.Context, in PlaceInput) (string, error) {
	return s.places.Resolve(ctx, in)
}

// SearchPlaces exposes the raw place search.
func (s *NayaService) SearchPlaces(ctx context.Context, query PlaceQuery) ([]*Place, error) {
	return s.client.SearchPlaces(ctx, query)
}

// --- photos ---

// DeletePhoto removes a photo by id (owner or admin only, enforced
// server-side).
func (s *NayaService) DeletePhoto(ctx context.Context, photoID string) error {
	return s.client.DeletePhoto(ctx, photoID)
}

func usernameOf(u *User) string {
	if u == nil {
		return ""
	}
	return u.Username
}
