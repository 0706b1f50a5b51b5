// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	requestutil "github.com/taibuivan/rickmorty/internal/platform/request"
	"github.com/taibuivan/rickmorty/internal/platform/validate"
)

func withURLParam(request *http.Request, key, value string) *http.Request {
	routeContext := chi.NewRouteContext()
	routeContext.URLParams.Add(key, value)
	return request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, routeContext))
}

func TestIntParam(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{"826", 826, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"rick", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			request := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", tt.raw)

			got, err := requestutil.IntParam(request, "id")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOptionalQuery(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/?species=%20Human%20&status=", nil)

	species := requestutil.OptionalQuery(request, "species")
	require.NotNil(t, species)
	assert.Equal(t, "Human", *species)

	assert.Nil(t, requestutil.OptionalQuery(request, "status"))
	assert.Nil(t, requestutil.OptionalQuery(request, "gender"))
}

func TestDecodeJSON(t *testing.T) {
	var body struct {
		Species *string `json:"species"`
	}

	request := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"species":"Alien"}`))
	require.NoError(t, requestutil.DecodeJSON(request, &body))
	assert.Equal(t, "Alien", *body.Species)

	request = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"species":`))
	assert.ErrorIs(t, requestutil.DecodeJSON(request, &body), validate.ErrInvalidJSON)

	request = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"gender":"Male"}`))
	assert.ErrorIs(t, requestutil.DecodeJSON(request, &body), validate.ErrInvalidJSON)
}
