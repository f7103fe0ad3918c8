package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/repairdepot/storefront/pkg/errors"
)

type claimBody struct {
	Email string `json:"email" validate:"required,email"`
	SKU   string `json:"product_sku" validate:"required,sku"`
	Note  string `json:"note" validate:"omitempty,min=10"`
	Kind  string `json:"kind" validate:"omitempty,oneof=in_store mail_in"`
}

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func details(t *testing.T, err error) map[string]string {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	d, _ := typed.Details().(map[string]string)
	return d
}

func TestDecodeJSONBodyAccepts(t *testing.T) {
	var got claimBody
	require.NoError(t, DecodeJSONBody(post(`{"email":"a@b.co","product_sku":"SCR-IP13","kind":"mail_in"}`), &got))
	assert.Equal(t, "SCR-IP13", got.SKU)
}

func TestDecodeJSONBodyFieldMessagesUseJSONNames(t *testing.T) {
	var got claimBody
	err := DecodeJSONBody(post(`{"email":"nope","product_sku":"bad sku","note":"short","kind":"drone"}`), &got)
	d := details(t, err)
	assert.Equal(t, "must be a valid email", d["email"])
	assert.Equal(t, "must be a valid SKU", d["product_sku"])
	assert.Equal(t, "must be at least 10 characters", d["note"])
	assert.Equal(t, "must be one of: in_store, mail_in", d["kind"])
}

func TestDecodeJSONBodyRejectsMalformedInput(t *testing.T) {
	cases := map[string]string{
		"empty":    ``,
		"unknown":  `{"email":"a@b.co","product_sku":"X1","extra":1}`,
		"trailing": `{"email":"a@b.co","product_sku":"X1"}{"again":true}`,
		"syntax":   `{"email":`,
		"type":     `{"email":5}`,
	}
	for name, body := range cases {
		var got claimBody
		err := DecodeJSONBody(post(body), &got)
		require.Error(t, err, name)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), name)
	}
}

func TestDecodeJSONBodyCapsSize(t *testing.T) {
	var got claimBody
	big := `{"email":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
	err := DecodeJSONBody(post(big), &got)
	require.Error(t, err)
	assert.Equal(t, "request body too large", pkgerrors.As(err).Message())
}

func TestQueryInt(t *testing.T) {
	bounds := IntRange{Default: 24, Min: 1, Max: 100}
	req := httptest.NewRequest(http.MethodGet, "/?limit=50&bad=x&big=500", nil)

	v, err := QueryInt(req, "limit", bounds)
	require.NoError(t, err)
	assert.Equal(t, 50, v)

	v, err = QueryInt(req, "missing", bounds)
	require.NoError(t, err)
	assert.Equal(t, 24, v)

	_, err = QueryInt(req, "bad", bounds)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	_, err = QueryInt(req, "big", bounds)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestClean(t *testing.T) {
	assert.Equal(t, "iphone 13 screen", Clean("  iphone \t 13\n screen ", 0))
	assert.Equal(t, "écran", Clean("écran cassé", 5))
	assert.Equal(t, "ab", Clean("ab", 5))
}

func TestQueryText(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?q=+galaxy++s22+", nil)
	assert.Equal(t, "galaxy s22", QueryText(req, "q", 120))
}
