package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	item, err := NewItem("item-1", "Basic Algebra", "Math", "PDF", "algebra_basics.pdf", 6, "English")
	require.NoError(t, err)
	assert.Equal(t, 0, item.DownloadCount)
	assert.False(t, item.CreatedAt.IsZero())
}

func TestNewItem_Validation(t *testing.T) {
	_, err := NewItem("item-1", "  ", "Math", "PDF", "x.pdf", 6, "English")
	assert.ErrorIs(t, err, ErrInvalidTitle)

	_, err = NewItem("item-1", "Basic Algebra", "Math", "PDF", "x.pdf", 6, "")
	assert.ErrorIs(t, err, ErrInvalidLanguage)
}

func TestFilter_Validate(t *testing.T) {
	assert.NoError(t, Filter{Language: "English"}.Validate())
	assert.ErrorIs(t, Filter{Language: "  "}.Validate(), ErrInvalidLanguage)
}

func TestFilter_Matches(t *testing.T) {
	item := Item{
		Title:      "Photosynthesis",
		Subject:    "Science",
		GradeLevel: 7,
		Language:   "English",
	}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"language only", Filter{Language: "English"}, true},
		{"wrong language", Filter{Language: "Hindi"}, false},
		{"matching grade", Filter{Language: "English", Grade: 7}, true},
		{"wrong grade", Filter{Language: "English", Grade: 8}, false},
		{"zero grade matches any", Filter{Language: "English", Grade: 0}, true},
		{"matching subject", Filter{Language: "English", Subject: "Science"}, true},
		{"wrong subject", Filter{Language: "English", Subject: "Math"}, false},
		{"All subject matches any", Filter{Language: "English", Subject: AllSubjects}, true},
		{"empty subject matches any", Filter{Language: "English", Subject: ""}, true},
		{"all filters combined", Filter{Language: "English", Grade: 7, Subject: "Science"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(item))
		})
	}
}

func TestFilter_ActiveFlags(t *testing.T) {
	assert.False(t, Filter{Subject: ""}.FiltersSubject())
	assert.False(t, Filter{Subject: AllSubjects}.FiltersSubject())
	assert.True(t, Filter{Subject: "Math"}.FiltersSubject())

	assert.False(t, Filter{Grade: 0}.FiltersGrade())
	assert.True(t, Filter{Grade: 6}.FiltersGrade())
}
