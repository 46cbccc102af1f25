package canvas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLinks(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    PageLinks
		wantErr bool
	}{
		{
			name:   "empty",
			header: "",
			want:   nil,
		},
		{
			name: "canvas style",
			header: `<https://x/api/v1/courses?page=1&per_page=10>; rel="current",` +
				`<https://x/api/v1/courses?page=2&per_page=10>; rel="next",` +
				`<https://x/api/v1/courses?page=1&per_page=10>; rel="first",` +
				`<https://x/api/v1/courses?page=4&per_page=10>; rel="last"`,
			want: PageLinks{
				RelCurrent: "https://x/api/v1/courses?page=1&per_page=10",
				RelNext:    "https://x/api/v1/courses?page=2&per_page=10",
				RelFirst:   "https://x/api/v1/courses?page=1&per_page=10",
				RelLast:    "https://x/api/v1/courses?page=4&per_page=10",
			},
		},
		{
			name:   "unquoted and uppercase rel",
			header: `<https://x/a?page=1>; rel=Current, <https://x/a?page=1>; rel=LAST`,
			want: PageLinks{
				RelCurrent: "https://x/a?page=1",
				RelLast:    "https://x/a?page=1",
			},
		},
		{
			name:   "multiple rels in one entry",
			header: `<https://x/a?page=1>; rel="current first last"`,
			want: PageLinks{
				RelCurrent: "https://x/a?page=1",
				RelFirst:   "https://x/a?page=1",
				RelLast:    "https://x/a?page=1",
			},
		},
		{
			name:    "no angle brackets",
			header:  `https://x/a?page=1; rel="current"`,
			wantErr: true,
		},
		{
			name:    "missing rel",
			header:  `<https://x/a?page=1>`,
			wantErr: true,
		},
		{
			name:    "one bad entry among good ones",
			header:  `<https://x/a?page=1>; rel="current", junk`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLinks(tt.header)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrPagination))
				var pe *PaginationError
				assert.True(t, errors.As(err, &pe))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPageLinks_Done(t *testing.T) {
	done, err := PageLinks{RelCurrent: "a", RelLast: "a"}.Done()
	require.NoError(t, err)
	assert.True(t, done)

	done, err = PageLinks{RelCurrent: "a", RelNext: "b", RelLast: "c"}.Done()
	require.NoError(t, err)
	assert.False(t, done)

	_, err = PageLinks{RelLast: "c"}.Done()
	assert.True(t, errors.Is(err, ErrPagination))

	_, err = PageLinks{RelCurrent: "a"}.Done()
	assert.True(t, errors.Is(err, ErrPagination))
}

func TestPageLinks_Next(t *testing.T) {
	next, err := PageLinks{RelCurrent: "a", RelNext: "b", RelLast: "c"}.Next()
	require.NoError(t, err)
	assert.Equal(t, "b", next)

	_, err = PageLinks{RelCurrent: "a", RelLast: "c"}.Next()
	assert.True(t, errors.Is(err, ErrPagination))
}

func TestPageLinks_String(t *testing.T) {
	links := PageLinks{RelLast: "l", RelCurrent: "c", "zeta": "z", "alpha": "y"}
	assert.Equal(t, `<c>; rel="current",<l>; rel="last",<y>; rel="alpha",<z>; rel="zeta"`, links.String())

	reparsed, err := ParseLinks(links.String())
	require.NoError(t, err)
	assert.Equal(t, links, reparsed)
}
