package systemindices

// Request headers carrying caller identity for system index gating. They
// are set by the transport layer; requests without them get full access,
// matching the behavior for direct operator calls.
const (
	// HeaderSystemAccessAllowed set to "false" denies all system access.
	HeaderSystemAccessAllowed = "X-Meridian-System-Index-Access"

	// HeaderProductOrigin names the product issuing the request; when set,
	// access is restricted to that product's own system namespaces.
	HeaderProductOrigin = "X-Meridian-Product-Origin"
)

// RequestAccess is the caller identity relevant to system index gating,
// extracted from request headers by the transport.
type RequestAccess struct {
	// SystemAccessDenied is true when the caller explicitly disclaimed
	// system index access.
	SystemAccessDenied bool

	// Product is the product tag, empty for untagged requests.
	Product string
}

// Level derives the access level for the request.
func (a RequestAccess) Level() AccessLevel {
	if a.SystemAccessDenied {
		return AccessNone
	}
	if a.Product != "" {
		return AccessRestricted
	}
	return AccessAll
}
