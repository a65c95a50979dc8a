package model

import "testing"

func TestCastMemberType_Valid(t *testing.T) {
	tests := []struct {
		input    CastMemberType
		expected bool
	}{
		{CastMemberDirector, true},
		{CastMemberActor, true},
		{0, false},
		{3, false},
	}

	for _, tt := range tests {
		if got := tt.input.Valid(); got != tt.expected {
			t.Errorf("CastMemberType(%d).Valid() = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestVideo_RelationIDs(t *testing.T) {
	v := Video{
		Categories: []Category{{ID: 3}, {ID: 1}},
		Genres:     []Genre{{ID: 5}},
	}

	cats := v.CategoryIDs()
	if len(cats) != 2 || cats[0] != 3 || cats[1] != 1 {
		t.Errorf("CategoryIDs() = %v, want [3 1]", cats)
	}
	genres := v.GenreIDs()
	if len(genres) != 1 || genres[0] != 5 {
		t.Errorf("GenreIDs() = %v, want [5]", genres)
	}
	if ids := (&Video{}).CategoryIDs(); len(ids) != 0 {
		t.Errorf("CategoryIDs() on empty video = %v, want empty", ids)
	}
}
