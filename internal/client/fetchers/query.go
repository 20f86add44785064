package fetchers

import (
	"net/url"

	"github.com/dmitrijs2005/matchdesk/internal/client/api"
)

func withQuery(q url.Values) api.RequestOptions {
	return api.RequestOptions{Query: q}
}
