package tgui

import "strings"

// MD represents MarkdownV2 text that is safe to pass to Telegram when
// ParseMode="MarkdownV2". Values of type MD should be treated as already-escaped.
type MD string

func (m MD) String() string { return string(m) }

// mdSpecial lists every character Telegram requires to be escaped outside
// of entities in MarkdownV2.
const mdSpecial = "\\_*[]()~`>#+-=|{}.!"

// Esc escapes text for Telegram MarkdownV2 parse mode.
// Blank input escapes to "".
func Esc(s string) MD {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		if r < 0x80 && strings.ContainsRune(mdSpecial, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return MD(b.String())
}

// Raw marks a string as already-safe MarkdownV2.
// Use sparingly.
func Raw(s string) MD { return MD(s) }

func wrap(mark string, inner MD) MD { return MD(mark + inner.String() + mark) }

// B renders bold text; s is escaped.
func B(s string) MD { return wrap("*", Esc(s)) }

// BoldMD renders already-escaped text in bold.
func BoldMD(inner MD) MD { return wrap("*", inner) }

// JoinMD joins safe MarkdownV2 parts with sep, skipping blank parts.
func JoinMD(sep string, parts ...MD) MD {
	if len(parts) == 0 {
		return ""
	}
	ss := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p.String()) == "" {
			continue
		}
		ss = append(ss, p.String())
	}
	return MD(strings.Join(ss, sep))
}
