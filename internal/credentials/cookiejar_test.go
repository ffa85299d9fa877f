package credentials

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCookiesSkipsCommentsAndBlankLines(t *testing.T) {
	jar, err := ParseCookies(strings.NewReader("# Netscape HTTP Cookie File\n\na\tb\tc\tname1\tvalue1\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name1": "value1"}, jar)
}

func TestParseCookiesNetscapeLines(t *testing.T) {
	content := strings.Join([]string{
		".instagram.com\tTRUE\t/\tTRUE\t1999999999\tsessionid\tabc%3A123",
		".instagram.com\tTRUE\t/\tTRUE\t1999999999\tcsrftoken\tzzz\r",
		"   ",
		"single-field-line",
		".instagram.com\tTRUE\t/\tTRUE\t1999999999\tsessionid\toverride",
	}, "\n")

	jar, err := ParseCookies(strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"sessionid": "override", "csrftoken": "zzz"}, jar)
}

func TestLoadCookieFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.txt")
	require.NoError(t, os.WriteFile(path, []byte("x\ty\tds_user_id\t42\n"), 0o600))

	jar, err := LoadCookieFile(path)
	require.NoError(t, err)
	assert.Equal(t, "42", jar["ds_user_id"])

	jar, err = LoadCookieFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
	assert.Empty(t, jar)
}

func TestCookieHeader(t *testing.T) {
	assert.Equal(t, "", CookieHeader(nil))
	assert.Equal(t, "a=1; b=2", CookieHeader(map[string]string{"b": "2", "a": "1"}))
}

func TestCookieHeaderKeepsRawValues(t *testing.T) {
	jar, err := ParseCookies(strings.NewReader(
		".instagram.com\tTRUE\t/\tTRUE\t1999999999\trur\t\"LDC\\05412345\\0541700000000:01f7\"\n" +
			".instagram.com\tTRUE\t/\tTRUE\t1999999999\tsessionid\tabc%3A123\n"))
	require.NoError(t, err)

	assert.Equal(t, `rur="LDC\05412345\0541700000000:01f7"; sessionid=abc%3A123`, CookieHeader(jar))
}
