package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	ID          string   `json:"id" gorm:"primaryKey;size:36"`
	TeacherID   string   `json:"teacher_id" gorm:"not null;index;size:255"`
	Title       string   `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description *string  `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`
	ImageURL    *string  `json:"image_url" gorm:"size:500"`
	Price       *float64 `json:"price"`
	IsPublished bool     `json:"is_published" gorm:"not null;default:false;index"`
	CategoryID  *string  `json:"category_id" gorm:"size:36;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Category  *Category  `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Chapters  []Chapter  `json:"chapters,omitempty" gorm:"foreignKey:CourseID"`
	Purchases []Purchase `json:"purchases,omitempty" gorm:"foreignKey:CourseID"`
}

type Category struct {
	ID   string `json:"id" gorm:"primaryKey;size:36"`
	Name string `json:"name" gorm:"uniqueIndex;not null;size:100"`
}

type Chapter struct {
	ID          string  `json:"id" gorm:"primaryKey;size:36"`
	CourseID    string  `json:"course_id" gorm:"not null;index;size:36"`
	Title       string  `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Description *string `json:"description" gorm:"type:text"`
	VideoURL    *string `json:"video_url" gorm:"size:500"`
	Position    int     `json:"position" gorm:"not null;default:0"`
	IsPublished bool    `json:"is_published" gorm:"not null;default:false;index"`
	IsFree      bool    `json:"is_free" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	UserProgress []UserProgress `json:"user_progress,omitempty" gorm:"foreignKey:ChapterID"`
}

// Purchase represents a student's enrollment in a course. One row per
// (user, course) pair, enforced by the composite unique index.
type Purchase struct {
	ID       string `json:"id" gorm:"primaryKey;size:36"`
	UserID   string `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_purchase_user_course"`
	CourseID string `json:"course_id" gorm:"not null;size:36;uniqueIndex:idx_purchase_user_course"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Course Course `json:"course" gorm:"foreignKey:CourseID"`
}

// UserProgress tracks a student's completion of one chapter. Identity is the
// (user, chapter) pair; writes go through an upsert, never a plain insert.
type UserProgress struct {
	ID          string `json:"id" gorm:"primaryKey;size:36"`
	UserID      string `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_progress_user_chapter"`
	ChapterID   string `json:"chapter_id" gorm:"not null;size:36;uniqueIndex:idx_progress_user_chapter"`
	IsCompleted bool   `json:"is_completed" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"index"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (c *Chapter) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (up *UserProgress) BeforeCreate(tx *gorm.DB) error {
	if up.ID == "" {
		up.ID = uuid.NewString()
	}
	return nil
}

func (Course) TableName() string       { return "courses" }
func (Category) TableName() string     { return "categories" }
func (Chapter) TableName() string      { return "chapters" }
func (Purchase) TableName() string     { return "purchases" }
func (UserProgress) TableName() string { return "user_progress" }
