package lifecycle

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoute(t *testing.T) {
	r, err := ParseRoute("/forms/abc/page2?draftId=4&x=y")
	require.NoError(t, err)
	assert.Equal(t, "/forms/abc/page2", r.Path)
	assert.Equal(t, 4, r.DraftID())
	assert.Equal(t, "y", r.Query.Get("x"))
}

func TestRoute_DraftID_Invalid(t *testing.T) {
	for _, q := range []string{"", "draftId=abc", "draftId=-3"} {
		r, err := ParseRoute("/f/page1?" + q)
		require.NoError(t, err)
		assert.Zero(t, r.DraftID(), q)
	}
}

func TestRoute_WithDraftID_DoesNotMutate(t *testing.T) {
	orig := Route{Path: "/f/page1", Query: url.Values{"tab": {"a"}}}
	next := orig.WithDraftID(3)

	assert.Equal(t, "/f/page1?draftId=3&tab=a", next.String())
	assert.Empty(t, orig.Query.Get(DraftIDParam))
}

func TestRoute_FirstPage(t *testing.T) {
	tests := map[string]string{
		"/forms/abc/page3": "/forms/abc/page1",
		"/page7":           "/page1",
		"page2":            "page1",
	}
	for in, want := range tests {
		r := Route{Path: in, Query: url.Values{"draftId": {"9"}}}.FirstPage()
		assert.Equal(t, want, r.Path)
		assert.Empty(t, r.Query)
		assert.Equal(t, want, r.String())
	}
}

func TestMemoryNavigator(t *testing.T) {
	n := NewMemoryNavigator(Route{Path: "/a"})
	require.NoError(t, n.Replace(context.Background(), Route{Path: "/b"}))
	assert.Equal(t, "/b", n.Current().Path)
	assert.Equal(t, 1, n.Replaces())
}
