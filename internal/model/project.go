package model

import "time"

const (
	ProjectLayoutGrid     = "grid"
	ProjectLayoutMasonry  = "masonry"
	ProjectLayoutCarousel = "carousel"

	ProjectAnimationFade  = "fade"
	ProjectAnimationSlide = "slide"
	ProjectAnimationScale = "scale"
	ProjectAnimationNone  = "none"
)

type Project struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Layout    string    `json:"layout"`
	Animation string    `json:"animation"`
	Images    []string  `json:"images"`
	CreatedAt time.Time `json:"created_at"`
}

func ValidProjectLayout(layout string) bool {
	switch layout {
	case ProjectLayoutGrid, ProjectLayoutMasonry, ProjectLayoutCarousel:
		return true
	}
	return false
}

func ValidProjectAnimation(animation string) bool {
	switch animation {
	case ProjectAnimationFade, ProjectAnimationSlide, ProjectAnimationScale, ProjectAnimationNone:
		return true
	}
	return false
}
