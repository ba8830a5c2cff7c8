package cli

// serviceHint returns a static, best-effort service name for well-known
// ports. Purely cosmetic; the scanner itself never interprets port
// numbers.
func serviceHint(port uint16) string {
	switch port {
	case 20, 21:
		return "ftp"
	case 22:
		return "ssh"
	case 23:
		return "telnet"
	case 25:
		return "smtp"
	case 53:
		return "dns"
	case 80:
		return "http"
	case 110:
		return "pop3"
	case 135:
		return "msrpc"
	case 139:
		return "netbios"
	case 143:
		return "imap"
	case 443:
		return "https"
	case 445:
		return "smb"
	case 3306:
		return "mysql"
	case 3389:
		return "rdp"
	case 5432:
		return "postgres"
	case 6379:
		return "redis"
	case 8000, 8080:
		return "http-alt"
	case 8443:
		return "https-alt"
	default:
		return ""
	}
}
