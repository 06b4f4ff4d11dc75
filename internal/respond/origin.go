package respond

// Resolve decides the Access-Control-Allow-Origin value for a request.
//
// A nil whitelist means every origin is allowed and the wildcard is
// returned. An absent origin header also yields the wildcard. When a
// whitelist is configured, a member origin is echoed verbatim and a
// non-member yields the literal string "null", which signals a blocked
// origin as opposed to an unrestricted one.
func Resolve(origin string, whitelist []string) string {
	if whitelist == nil || origin == "" {
		return "*"
	}
	for _, allowed := range whitelist {
		if allowed == origin {
			return origin
		}
	}
	return "null"
}
