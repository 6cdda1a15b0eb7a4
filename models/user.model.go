package models

import (
	"time"

	"gorm.io/datatypes"
)

type Role string

const (
	RoleUser       Role = "user"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleInstructor || r == RoleAdmin
}

// TokenBlacklistTTL is how long a logged-out token is remembered
const TokenBlacklistTTL = 24 * time.Hour

type BlacklistedToken struct {
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"createdAt"`
}

type User struct {
	ID                  string                                `json:"id" gorm:"primaryKey;size:36"`
	Name                string                                `json:"name" gorm:"size:100;not null"`
	Email               string                                `json:"email" gorm:"size:191;uniqueIndex;not null"`
	Password            string                                `json:"-" gorm:"not null"`
	Role                Role                                  `json:"role" gorm:"size:16;default:'user'"`
	Bio                 string                                `json:"bio"`
	ProfileImage        string                                `json:"profileImage"`
	EnrolledCourses     datatypes.JSONSlice[Enrollment]       `json:"enrolledCourses"`
	Certificates        datatypes.JSONSlice[Certificate]      `json:"certificates"`
	Wishlist            datatypes.JSONSlice[string]           `json:"wishlist"`
	BlacklistedTokens   datatypes.JSONSlice[BlacklistedToken] `json:"-"`
	ResetPasswordToken  string                                `json:"-" gorm:"size:64;index"`
	ResetPasswordExpire *time.Time                            `json:"-"`
	Version             int                                   `json:"-" gorm:"not null;default:1"`
	CreatedAt           time.Time                             `json:"createdAt"`
	UpdatedAt           time.Time                             `json:"updatedAt"`
}

// EnrollmentIndex scans enrolledCourses for courseID. Entries with an empty
// course reference never match.
func (u *User) EnrollmentIndex(courseID string) int {
	for i, e := range u.EnrolledCourses {
		if e.CourseID == "" {
			continue
		}
		if e.CourseID == courseID {
			return i
		}
	}
	return -1
}

func (u *User) IsEnrolled(courseID string) bool {
	return u.EnrollmentIndex(courseID) != -1
}

func (u *User) HasCertificate(courseID string) bool {
	for _, c := range u.Certificates {
		if c.CourseID != "" && c.CourseID == courseID {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// IsTokenBlacklisted ignores entries older than the blacklist TTL
func (u *User) IsTokenBlacklisted(token string, now time.Time) bool {
	for _, t := range u.BlacklistedTokens {
		if t.Token == token && now.Sub(t.CreatedAt) < TokenBlacklistTTL {
			return true
		}
	}
	return false
}

// PruneBlacklist drops expired entries and reports whether anything changed
func (u *User) PruneBlacklist(now time.Time) bool {
	kept := u.BlacklistedTokens[:0]
	for _, t := range u.BlacklistedTokens {
		if now.Sub(t.CreatedAt) < TokenBlacklistTTL {
			kept = append(kept, t)
		}
	}
	changed := len(kept) != len(u.BlacklistedTokens)
	u.BlacklistedTokens = kept
	return changed
}

func (u *User) InWishlist(courseID string) bool {
	for _, id := range u.Wishlist {
		if id == courseID {
			return true
		}
	}
	return false
}
