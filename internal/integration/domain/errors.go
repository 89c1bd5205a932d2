package domain

import "errors"

var (
	// ErrUnsupportedService is returned before any network call when the
	// requested service name has no registered provider.
	ErrUnsupportedService = errors.New("unsupported service")

	// ErrIntegrationNotFound is returned when an integration id does not
	// resolve to a stored row.
	ErrIntegrationNotFound = errors.New("integration not found")

	// ErrTokenRefreshFailed indicates the provider rejected the refresh
	// token. The sync run must be aborted and logged as failed; the user
	// has to re-authorize.
	ErrTokenRefreshFailed = errors.New("token refresh failed")

	// ErrCodeExchangeFailed indicates the provider rejected the
	// authorization code during the OAuth callback.
	ErrCodeExchangeFailed = errors.New("authorization code exchange failed")

	// ErrMissingOAuthConfig indicates client id/secret/redirect URI are not
	// configured for the provider. Operator intervention required.
	ErrMissingOAuthConfig = errors.New("missing oauth configuration")

	// ErrSyncInProgress is returned when another invocation holds the sync
	// lease for the same integration.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrUnsupportedCalendarSource is returned for calendar callbacks that
	// name a source other than google.
	ErrUnsupportedCalendarSource = errors.New("unsupported calendar source")
)
