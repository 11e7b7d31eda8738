package naya

// Wire types exchanged with the NAYA backend. Timestamps stay as the
// ISO 8601 strings the server sends; the client never does date math.

// User is the full account record owned by the session.
type User struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email,omitempty"`
	Bio             string `json:"bio,omitempty"`
	ProfilePhotoURL string `json:"profile_photo_url,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
	IsAdmin         bool   `json:"is_admin,omitempty"`
}

// UserSummary is the author stub embedded in reviews, photos and comments.
type UserSummary struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	ProfilePhotoURL string `json:"profile_photo_url,omitempty"`
}

// Place is a named real-world location reviews attach to.
// The natural key for deduplication is the lower-cased (name, city, country) tuple.
type Place struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	City        string   `json:"city"`
	Country     string   `json:"country"`
	Description string   `json:"description,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// Photo is a child of a review, deletable independently by its owner or an admin.
type Photo struct {
	ID       string       `json:"id"`
	ReviewID string       `json:"review_id,omitempty"`
	FileURL  string       `json:"file_url"`
	Caption  string       `json:"caption,omitempty"`
	User     *UserSummary `json:"user,omitempty"`
}

// Comment is a child of a review.
type Comment struct {
	ID        string       `json:"id"`
	ReviewID  string       `json:"review_id,omitempty"`
	Content   string       `json:"content"`
	CreatedAt string       `json:"created_at,omitempty"`
	User      *UserSummary `json:"user,omitempty"`
}

// Review is the unit of replication across the client's collections: the
// same logical id may have independent copies in up to five lists at once.
type Review struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Content       string       `json:"content"`
	Rating        int          `json:"rating"`
	VisitDate     string       `json:"visit_date,omitempty"`
	CreatedAt     string       `json:"created_at,omitempty"`
	UserID        string       `json:"user_id,omitempty"`
	User          *UserSummary `json:"user,omitempty"`
	Place         *Place       `json:"place,omitempty"`
	Photos        []Photo      `json:"photos,omitempty"`
	LikesCount    int          `json:"likes_count"`
	LikedByUser   bool         `json:"liked_by_user"`
	CommentsCount int          `json:"comments_count"`
}

// Clone returns a deep copy so lists never share review storage.
func (r *Review) Clone() *Review {
	if r == nil {
		return nil
	}
	out := *r
	if r.User != nil {
		u := *r.User
		out.User = &u
	}
	if r.Place != nil {
		p := *r.Place
		if r.Place.Latitude != nil {
			lat := *r.Place.Latitude
			p.Latitude = &lat
		}
		if r.Place.Longitude != nil {
			lon := *r.Place.Longitude
			p.Longitude = &lon
		}
		out.Place = &p
	}
	if r.Photos != nil {
		out.Photos = make([]Photo, len(r.Photos))
		for i, ph := range r.Photos {
			if ph.User != nil {
				u := *ph.User
				ph.User = &u
			}
			out.Photos[i] = ph
		}
	}
	return &out
}

// UserStats is the /auth/stats payload.
type UserStats struct {
	ReviewsCount int `json:"reviews_count"`
	PhotosCount  int `json:"photos_count"`
	LikesGiven   int `json:"likes_given,omitempty"`
	LikesGotten  int `json:"likes_received,omitempty"`
}

// LikeSummary is the server's answer to a like/unlike/list-likes call.
type LikeSummary struct {
	LikesCount  int  `json:"likes_count"`
	LikedByUser bool `json:"liked"`
}
