package uriutil_test

import (
	"testing"

	"github.com/go-phorce/ostiarius/uriutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertPasswordFile(t *testing.T) {
	got, err := uriutil.InsertPassword("12?34", "file:///foo/bar")
	require.NoError(t, err)
	assert.Equal(t, "file:///foo/bar?password=12%3F34", got)
}

func TestInsertPasswordPKCS11(t *testing.T) {
	password := " <>#%+{}|\\^~[]`;/?:@=&$"
	uri := "pkcs11:token=Ostiarius%20Token%2002?module-path=/usr/lib64/libsofthsm2.so"
	want := "pkcs11:token=Ostiarius%20Token%2002;pin-value=%20%3C%3E%23%25%2B%7B%7D%7C%5C%5E%7E%5B%5D%60%3B%2F%3F%3A%40%3D%26%24?module-path=/usr/lib64/libsofthsm2.so"

	got, err := uriutil.InsertPassword(password, uri)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestInsertPasswordUnsupportedScheme(t *testing.T) {
	_, err := uriutil.InsertPassword("x", "http://example.com")
	require.Error(t, err)
}

func TestInsertPasswordIdempotent(t *testing.T) {
	uri := "pkcs11:token=T;object=K?module-path=/lib/x.so"
	password := "hunter2!"

	once, err := uriutil.InsertPassword(password, uri)
	require.NoError(t, err)

	twice, err := uriutil.InsertPassword(password, once)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestInsertPasswordFileIdempotent(t *testing.T) {
	uri := "file:///foo/bar?stale=1"
	password := "hunter2!"

	once, err := uriutil.InsertPassword(password, uri)
	require.NoError(t, err)
	twice, err := uriutil.InsertPassword(password, once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestPercentRoundTrip(t *testing.T) {
	samples := []string{
		"",
		"simple",
		" <>#%+{}|\\^~[]`;/?:@=&$",
		"unicode:é中文",
	}
	for _, s := range samples {
		encoded := uriutil.PercentEncode(s)
		decoded, err := uriutil.UnescapePassword(encoded)
		require.NoError(t, err)
		assert.Equal(t, s, decoded)
	}
}

func TestStripTrailingNewline(t *testing.T) {
	assert.Equal(t, "abc", uriutil.StripTrailingNewline("abc\n"))
	assert.Equal(t, "abc", uriutil.StripTrailingNewline("abc\r\n"))
	assert.Equal(t, "abc", uriutil.StripTrailingNewline("abc\n\n\r"))
	assert.Equal(t, "a\nbc", uriutil.StripTrailingNewline("a\nbc"))
	assert.Equal(t, "abc", uriutil.StripTrailingNewline("abc"))
}
