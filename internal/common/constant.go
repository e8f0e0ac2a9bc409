package common

// AccessTokenHeaderName is the HTTP header carrying the bearer access token.
const AccessTokenHeaderName = "Authorization"

// BearerPrefix precedes the access token in AccessTokenHeaderName.
const BearerPrefix = "Bearer "
