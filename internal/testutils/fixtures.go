package testutils

import (
	"fmt"
	"strings"

	"cofactor-club/internal/model/referral"
	"cofactor-club/internal/model/user"
	"cofactor-club/internal/model/wiki"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreateTestUser creates a test user with unique email and referral code
func CreateTestUser(db *gorm.DB, opts ...UserOption) *user.User {
	uniqueID := uuid.New().String()

	testUser := &user.User{
		Email:        fmt.Sprintf("test_%s@example.com", uniqueID),
		Name:         "Test User",
		PasswordHash: "$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalidinva",
		Role:         user.RoleStudent,
		ReferralCode: "TST-" + strings.ToUpper(strings.ReplaceAll(uniqueID, "-", "")[:12]),
		SocialStats:  datatypes.NewJSONType(user.SocialStats{}),
	}

	for _, opt := range opts {
		opt(testUser)
	}

	if err := db.Create(testUser).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test user: %v", err))
	}

	return testUser
}

// UserOption configures test user
type UserOption func(*user.User)

// WithEmail sets the email
func WithEmail(email string) UserOption {
	return func(u *user.User) {
		u.Email = email
	}
}

// WithName sets the display name
func WithName(name string) UserOption {
	return func(u *user.User) {
		u.Name = name
	}
}

// WithRole sets the role
func WithRole(role string) UserOption {
	return func(u *user.User) {
		u.Role = role
	}
}

// WithPasswordHash sets the stored password hash
func WithPasswordHash(hash string) UserOption {
	return func(u *user.User) {
		u.PasswordHash = hash
	}
}

// WithReferralCode sets the referral code
func WithReferralCode(code string) UserOption {
	return func(u *user.User) {
		u.ReferralCode = code
	}
}

// WithPowerScore sets the cached power score
func WithPowerScore(score int64) UserOption {
	return func(u *user.User) {
		u.PowerScore = score
	}
}

// WithSocialStats sets the social stats record
func WithSocialStats(stats user.SocialStats) UserOption {
	return func(u *user.User) {
		u.SocialStats = datatypes.NewJSONType(stats)
	}
}

// CreateTestReferral links referrer -> referred
func CreateTestReferral(db *gorm.DB, referrerID, referredID uint) *referral.Referral {
	r := &referral.Referral{ReferrerID: referrerID, ReferredUserID: referredID}
	if err := db.Create(r).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test referral: %v", err))
	}
	return r
}

// CreateTestPage creates a test page with a unique slug
func CreateTestPage(db *gorm.DB, opts ...PageOption) *wiki.UniPage {
	uniqueID := uuid.New().String()

	page := &wiki.UniPage{
		Slug: "test-uni-" + uniqueID,
		Name: "Test University " + uniqueID[:8],
	}

	for _, opt := range opts {
		opt(page)
	}

	if err := db.Create(page).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test page: %v", err))
	}

	return page
}

// PageOption configures test page
type PageOption func(*wiki.UniPage)

// WithSlug sets the slug
func WithSlug(slug string) PageOption {
	return func(p *wiki.UniPage) {
		p.Slug = slug
	}
}

// WithContent sets the published content
func WithContent(content string, published bool) PageOption {
	return func(p *wiki.UniPage) {
		p.Content = content
		p.Published = published
	}
}

// CreateTestRevision creates a revision for the page, PENDING unless status is given
func CreateTestRevision(db *gorm.DB, pageID, authorID uint, content string, status ...string) *wiki.WikiRevision {
	rev := &wiki.WikiRevision{
		UniPageID: pageID,
		AuthorID:  authorID,
		Content:   content,
		Status:    wiki.StatusPending,
	}
	if len(status) > 0 {
		rev.Status = status[0]
	}

	if err := db.Create(rev).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test revision: %v", err))
	}

	return rev
}

// ReloadUser reads the user row again
func ReloadUser(db *gorm.DB, id uint) *user.User {
	var u user.User
	if err := db.First(&u, id).Error; err != nil {
		panic(fmt.Sprintf("Failed to reload user %d: %v", id, err))
	}
	return &u
}
