package naya

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Client groups the typed endpoint wrappers over the gateway. It knows
// paths and payload envelopes, nothing about caching or session state.
type Client struct {
	gw Gateway
}

func NewClient(gw Gateway) *Client {
	return &Client{gw: gw}
}

// buildQuery renders non-empty params as a query string, "?"-prefixed.
func buildQuery(params map[string]string) string {
	values := url.Values{}
	for key, value := range params {
		if value != "" {
			values.Set(key, value)
		}
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

// --- auth ---

// Credentials is the login payload. Login accepts username or email.
type Credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Registration is the register payload.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult carries the token pair plus the user record.
type LoginResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	var out LoginResult
	err := c.gw.Call(ctx, "/auth/login", CallOptions{Method: http.MethodPost, Body: creds}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, reg Registration) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := c.gw.Call(ctx, "/auth/register", CallOptions{Method: http.MethodPost, Body: reg}, &out)
	if err != nil {
		return "", err
	}
	return out.Message, nil
}

// ProfilePayload is the authenticated /auth/profile response: the user
// record plus the liked-review seed data the reconciler consumes.
type ProfilePayload struct {
	User
	Reviews           []*Review `json:"reviews,omitempty"`
	LikedReviews      []*Review `json:"liked_reviews,omitempty"`
	LikedReviewsCount *int      `json:"liked_reviews_count,omitempty"`
}

func (c *Client) Profile(ctx context.Context) (*ProfilePayload, error) {
	var out ProfilePayload
	err := c.gw.Call(ctx, "/auth/profile", CallOptions{RequiresAuth: true}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Username string `json:"username,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (string, *User, error) {
	var out struct {
		Message string `json:"message"`
		User    *User  `json:"user"`
	}
	err := c.gw.Call(ctx, "/auth/profile", CallOptions{Method: http.MethodPut, Body: update, RequiresAuth: true}, &out)
	if err != nil {
		return "", nil, err
	}
	return out.Message, out.User, nil
}

// UpdateAvatar sends a pre-built multipart body. Returns the server
// message and the updated user when the server echoes one back.
func (c *Client) UpdateAvatar(ctx context.Context, body []byte, contentType string) (string, *User, error) {
	var out struct {
		Message         string `json:"message"`
		User            *User  `json:"user"`
		ProfilePhotoURL string `json:"profile_photo_url"`
	}
	err := c.gw.Call(ctx, "/auth/avatar", CallOptions{
		Method: http.MethodPut, RawBody: body, ContentType: contentType, RequiresAuth: true,
	}, &out)
	if err != nil {
		return "", nil, err
	}
	if out.User == nil && out.ProfilePhotoURL != "" {
		out.User = &User{ProfilePhotoURL: out.ProfilePhotoURL}
	}
	return out.Message, out.User, nil
}

func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) (string, error) {
	payload := map[string]string{"old_password": oldPassword, "new_password": newPassword}
	var out struct {
		Message string `json:"message"`
	}
	err := c.gw.Call(ctx, "/auth/change-password", CallOptions{Method: http.MethodPut, Body: payload, RequiresAuth: true}, &out)
	if err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) Deactivate(ctx context.Context) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := c.gw.Call(ctx, "/auth/deactivate", CallOptions{Method: http.MethodPut, RequiresAuth: true}, &out)
	if err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) Stats(ctx context.Context) (*UserStats, error) {
	var out UserStats
	err := c.gw.Call(ctx, "/auth/stats", CallOptions{RequiresAuth: true}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// PublicProfile is another traveller's visible profile.
type PublicProfile struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	Bio             string `json:"bio,omitempty"`
	ProfilePhotoURL string `json:"profile_photo_url,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
	ReviewsCount    int    `json:"reviews_count"`
	PhotosCount     int    `json:"photos_count"`
}

// PublicProfileFor fetches a user's public profile. Some deployments
// wrap the record in a "user" envelope, some return it bare.
func (c *Client) PublicProfileFor(ctx context.Context, userID string) (*PublicProfile, error) {
	var raw json.RawMessage
	path := "/auth/users/" + url.PathEscape(userID)
	if err := c.gw.Call(ctx, path, CallOptions{}, &raw); err != nil {
		return nil, err
	}

	var envelope struct {
		User json.RawMessage `json:"user"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.User) > 0 {
		raw = envelope.User
	}

	var profile PublicProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("decoding public profile: %w", err)
	}
	return &profile, nil
}

// --- reviews ---

// ReviewFilter narrows a review listing.
type ReviewFilter struct {
	Search  string
	City    string
	Country string
	UserID  string
	Limit   int
}

func (f ReviewFilter) query() string {
	limit := ""
	if f.Limit > 0 {
		limit = strconv.Itoa(f.Limit)
	}
	return buildQuery(map[string]string{
		"search": f.Search, "city": f.City, "country": f.Country,
		"user_id": f.UserID, "limit": limit,
	})
}

func (c *Client) ListReviews(ctx context.Context, filter ReviewFilter, authenticated bool) ([]*Review, error) {
	var out struct {
		Reviews []*Review `json:"reviews"`
	}
	err := c.gw.Call(ctx, "/reviews"+filter.query(), CallOptions{RequiresAuth: authenticated}, &out)
	if err != nil {
		return nil, err
	}
	return out.Reviews, nil
}

// decodeReview accepts the envelope variants the API has shipped over
// time: data.review, data, review, or the bare record.
func decodeReview(raw json.RawMessage) (*Review, error) {
	var dataEnvelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &dataEnvelope); err == nil && len(dataEnvelope.Data) > 0 {
		raw = dataEnvelope.Data
	}

	var reviewEnvelope struct {
		Review *Review `json:"review"`
	}
	if err := json.Unmarshal(raw, &reviewEnvelope); err == nil && reviewEnvelope.Review != nil && reviewEnvelope.Review.ID != "" {
		return reviewEnvelope.Review, nil
	}

	var review Review
	if err := json.Unmarshal(raw, &review); err == nil && review.ID != "" {
		return &review, nil
	}
	return nil, NewError(KindRequestFailed, "the server response did not contain a review")
}

func (c *Client) GetReview(ctx context.Context, id string) (*Review, error) {
	var raw json.RawMessage
	if err := c.gw.Call(ctx, "/reviews/"+url.PathEscape(id), CallOptions{}, &raw); err != nil {
		return nil, err
	}
	return decodeReview(raw)
}

// ReviewDraft is the create/update payload.
type ReviewDraft struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Rating    int    `json:"rating"`
	VisitDate string `json:"visit_date,omitempty"`
	PlaceID   string `json:"place_id,omitempty"`
}

func (c *Client) CreateReview(ctx context.Context, draft ReviewDraft) (*Review, error) {
	var raw json.RawMessage
	err := c.gw.Call(ctx, "/reviews", CallOptions{Method: http.MethodPost, Body: draft, RequiresAuth: true}, &raw)
	if err != nil {
		return nil, err
	}
	return decodeReview(raw)
}

func (c *Client) UpdateReview(ctx context.Context, id string, draft ReviewDraft) (*Review, error) {
	var raw json.RawMessage
	err := c.gw.Call(ctx, "/reviews/"+url.PathEscape(id), CallOptions{Method: http.MethodPut, Body: draft, RequiresAuth: true}, &raw)
	if err != nil {
		return nil, err
	}
	return decodeReview(raw)
}

func (c *Client) DeleteReview(ctx context.Context, id string) error {
	return c.gw.Call(ctx, "/reviews/"+url.PathEscape(id), CallOptions{Method: http.MethodDelete, RequiresAuth: true}, nil)
}

// --- likes ---

func (c *Client) LikeReview(ctx context.Context, id string) (*LikeSummary, error) {
	var out LikeSummary
	err := c.gw.Call(ctx, "/reviews/"+url.PathEscape(id)+"/likes", CallOptions{Method: http.MethodPost, RequiresAuth: true}, &out)
	if err != nil {
		return nil, err
	}
	out.LikedByUser = true
	return &out, nil
}

func (c *Client) UnlikeReview(ctx context.Context, id string) (*LikeSummary, error) {
	var out LikeSummary
	err := c.gw.Call(ctx, "/reviews/"+url.PathEscape(id)+"/likes", CallOptions{Method: http.MethodDelete, RequiresAuth: true}, &out)
	if err != nil {
		return nil, err
	}
	out.LikedByUser = false
	return &out, nil
}

func (c *Client) ListLikes(ctx context.Context, id string, authenticated bool) (*LikeSummary, error) {
	var out LikeSummary
	err := c.gw.Call(ctx, "/reviews/"+url.PathEscape(id)+"/likes", CallOptions{RequiresAuth: authenticated}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// --- comments ---

func (c *Client) ListComments(ctx context.Context, reviewID string, limit int, authenticated bool) ([]Comment, int, error) {
	query := ""
	if limit > 0 {
		query = buildQuery(map[string]string{"limit": strconv.Itoa(limit)})
	}
	var out struct {
		Comments []Comment `json:"comments"`
		Total    *int      `json:"total"`
	}
	path := "/reviews/" + url.PathEscape(reviewID) + "/comments" + query
	err := c.gw.Call(ctx, path, CallOptions{RequiresAuth: authenticated}, &out)
	if err != nil {
		return nil, 0, err
	}
	total := len(out.Comments)
	if out.Total != nil {
		total = *out.Total
	}
	return out.Comments, total, nil
}

func (c *Client) CreateComment(ctx context.Context, reviewID, content string) (*Comment, error) {
	payload := map[string]string{"content": content}
	var raw json.RawMessage
	err := c.gw.Call(ctx, "/reviews/"+url.PathEscape(reviewID)+"/comments",
		CallOptions{Method: http.MethodPost, Body: payload, RequiresAuth: true}, &raw)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Comment *Comment `json:"comment"`
	}
	if jerr := json.Unmarshal(raw, &envelope); jerr == nil && envelope.Comment != nil && envelope.Comment.ID != "" {
		return envelope.Comment, nil
	}
	var comment Comment
	if jerr := json.Unmarshal(raw, &comment); jerr == nil && comment.ID != "" {
		return &comment, nil
	}
	return nil, NewError(KindRequestFailed, "the server response did not contain a comment")
}

func (c *Client) DeleteComment(ctx context.Context, reviewID, commentID string) error {
	path := "/reviews/" + url.PathEscape(reviewID) + "/comments/" + url.PathEscape(commentID)
	return c.gw.Call(ctx, path, CallOptions{Method: http.MethodDelete, RequiresAuth: true}, nil)
}

// --- places ---

// PlaceQuery filters a place search.
type PlaceQuery struct {
	Search  string
	City    string
	Country string
	Limit   int
}

func (c *Client) SearchPlaces(ctx context.Context, query PlaceQuery) ([]*Place, error) {
	limit := ""
	if query.Limit > 0 {
		limit = strconv.Itoa(query.Limit)
	}
	var out struct {
		Places []*Place `json:"places"`
	}
	path := "/places" + buildQuery(map[string]string{
		"search": query.Search, "city": query.City, "country": query.Country, "limit": limit,
	})
	if err := c.gw.Call(ctx, path, CallOptions{}, &out); err != nil {
		return nil, err
	}
	return out.Places, nil
}

// PlaceDraft is the place creation payload.
type PlaceDraft struct {
	Name        string `json:"name"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Description string `json:"description,omitempty"`
}

// CreatePlace posts a new place. The created record comes back either as
// the data object itself or nested under data.place.
func (c *Client) CreatePlace(ctx context.Context, draft PlaceDraft) (*Place, error) {
	var raw json.RawMessage
	err := c.gw.Call(ctx, "/places", CallOptions{Method: http.MethodPost, Body: draft, RequiresAuth: true}, &raw)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if jerr := json.Unmarshal(raw, &envelope); jerr == nil && len(envelope.Data) > 0 {
		raw = envelope.Data
	}

	var direct Place
	if jerr := json.Unmarshal(raw, &direct); jerr == nil && direct.ID != "" {
		return &direct, nil
	}

	var nested struct {
		Place *Place `json:"place"`
	}
	if jerr := json.Unmarshal(raw, &nested); jerr == nil && nested.Place != nil && nested.Place.ID != "" {
		return nested.Place, nil
	}

	return nil, NewError(KindPlaceResolutionFailed, "could not determine the identifier of the created place")
}

// --- photos ---

// UploadPhoto sends a pre-built multipart body (photo_file, review_id,
// optional caption). The created record comes back under photo, data,
// or bare.
func (c *Client) UploadPhoto(ctx context.Context, body []byte, contentType string) (*Photo, error) {
	var raw json.RawMessage
	err := c.gw.Call(ctx, "/photos", CallOptions{
		Method: http.MethodPost, RawBody: body, ContentType: contentType, RequiresAuth: true,
	}, &raw)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Photo *Photo `json:"photo"`
		Data  *Photo `json:"data"`
	}
	if jerr := json.Unmarshal(raw, &envelope); jerr == nil {
		if envelope.Photo != nil && envelope.Photo.ID != "" {
			return envelope.Photo, nil
		}
		if envelope.Data != nil && envelope.Data.ID != "" {
			return envelope.Data, nil
		}
	}
	var photo Photo
	if jerr := json.Unmarshal(raw, &photo); jerr == nil && photo.ID != "" {
		return &photo, nil
	}
	return nil, NewError(KindRequestFailed, "the server response did not contain a photo")
}

func (c *Client) DeletePhoto(ctx context.Context, photoID string) error {
	return c.gw.Call(ctx, "/photos/"+url.PathEscape(photoID), CallOptions{Method: http.MethodDelete, RequiresAuth: true}, nil)
}
