// Package http implements the dashboard HTTP handlers. Handlers stay thin:
// they parse and validate the request, delegate to the service layer, and
// render a JSON response, mapping service errors onto HTTP status codes.
package http
