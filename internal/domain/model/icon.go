package model

// Icon identifies one of the glyphs a service card can show. Names stored on
// records resolve through ResolveIcon; anything unknown becomes IconFallback.
type Icon int

const (
	IconFallback Icon = iota
	IconFileText
	IconGlobe
	IconBriefcase
	IconLinkedin
	IconShieldCheck
	IconCode
	IconRocket
	IconUsers
	IconCheckCircle
	IconArrowRight
	IconTerminal
	IconMonitor
	IconMail
	IconChevronRight
	IconPlay
	IconStar
	IconCpu
	IconAward
)

// DefaultIconName is the icon preselected on a new service form.
const DefaultIconName = "Star"

type iconDef struct {
	name  string
	glyph string // inner SVG markup on a 24x24 stroke canvas
}

var iconTable = [...]iconDef{
	IconFallback:     {"HelpCircle", `<circle cx="12" cy="12" r="10"/><path d="M9.09 9a3 3 0 0 1 5.83 1c0 2-3 3-3 3"/><path d="M12 17h.01"/>`},
	IconFileText:     {"FileText", `<path d="M14.5 2H6a2 2 0 0 0-2 2v16a2 2 0 0 0 2 2h12a2 2 0 0 0 2-2V7.5L14.5 2z"/><path d="M14 2v6h6"/><path d="M16 13H8"/><path d="M16 17H8"/><path d="M10 9H8"/>`},
	IconGlobe:        {"Globe", `<circle cx="12" cy="12" r="10"/><path d="M12 2a14.5 14.5 0 0 0 0 20 14.5 14.5 0 0 0 0-20"/><path d="M2 12h20"/>`},
	IconBriefcase:    {"Briefcase", `<rect width="20" height="14" x="2" y="7" rx="2"/><path d="M16 21V5a2 2 0 0 0-2-2h-4a2 2 0 0 0-2 2v16"/>`},
	IconLinkedin:     {"Linkedin", `<path d="M16 8a6 6 0 0 1 6 6v7h-4v-7a2 2 0 0 0-4 0v7h-4v-7a6 6 0 0 1 6-6z"/><rect width="4" height="12" x="2" y="9"/><circle cx="4" cy="4" r="2"/>`},
	IconShieldCheck:  {"ShieldCheck", `<path d="M12 22s8-4 8-10V5l-8-3-8 3v7c0 6 8 10 8 10"/><path d="m9 12 2 2 4-4"/>`},
	IconCode:         {"Code", `<path d="m16 18 6-6-6-6"/><path d="m8 6-6 6 6 6"/>`},
	IconRocket:       {"Rocket", `<path d="M4.5 16.5c-1.5 1.26-2 5-2 5s3.74-.5 5-2c.71-.84.7-2.13-.09-2.91a2.18 2.18 0 0 0-2.91-.09z"/><path d="m12 15-3-3a22 22 0 0 1 2-3.95A12.88 12.88 0 0 1 22 2c0 2.72-.78 7.5-6 11a22.35 22.35 0 0 1-4 2z"/>`},
	IconUsers:        {"Users", `<path d="M16 21v-2a4 4 0 0 0-4-4H6a4 4 0 0 0-4 4v2"/><circle cx="9" cy="7" r="4"/><path d="M22 21v-2a4 4 0 0 0-3-3.87"/><path d="M16 3.13a4 4 0 0 1 0 7.75"/>`},
	IconCheckCircle:  {"CheckCircle", `<path d="M22 11.08V12a10 10 0 1 1-5.93-9.14"/><path d="m9 11 3 3L22 4"/>`},
	IconArrowRight:   {"ArrowRight", `<path d="M5 12h14"/><path d="m12 5 7 7-7 7"/>`},
	IconTerminal:     {"Terminal", `<path d="m4 17 6-6-6-6"/><path d="M12 19h8"/>`},
	IconMonitor:      {"Monitor", `<rect width="20" height="14" x="2" y="3" rx="2"/><path d="M8 21h8"/><path d="M12 17v4"/>`},
	IconMail:         {"Mail", `<rect width="20" height="16" x="2" y="4" rx="2"/><path d="m22 7-8.97 5.7a1.94 1.94 0 0 1-2.06 0L2 7"/>`},
	IconChevronRight: {"ChevronRight", `<path d="m9 18 6-6-6-6"/>`},
	IconPlay:         {"Play", `<path d="m6 3 14 9-14 9V3z"/>`},
	IconStar:         {"Star", `<path d="m12 2 3.09 6.26L22 9.27l-5 4.87 1.18 6.88L12 17.77l-6.18 3.25L7 14.14 2 9.27l6.91-1.01L12 2z"/>`},
	IconCpu:          {"Cpu", `<rect width="16" height="16" x="4" y="4" rx="2"/><rect width="6" height="6" x="9" y="9" rx="1"/><path d="M15 2v2"/><path d="M15 20v2"/><path d="M2 15h2"/><path d="M2 9h2"/><path d="M20 15h2"/><path d="M20 9h2"/><path d="M9 2v2"/><path d="M9 20v2"/>`},
	IconAward:        {"Award", `<circle cx="12" cy="8" r="6"/><path d="M15.48 12.89 17 22l-5-3-5 3 1.52-9.11"/>`},
}

var iconByName = func() map[string]Icon {
	m := make(map[string]Icon, len(iconTable))
	for i, def := range iconTable {
		if Icon(i) == IconFallback {
			continue
		}
		m[def.name] = Icon(i)
	}
	return m
}()

// ResolveIcon maps a stored icon name to an Icon. Unknown names, including the
// fallback's own name, resolve to IconFallback. It never fails.
func ResolveIcon(name string) Icon {
	if icon, ok := iconByName[name]; ok {
		return icon
	}
	return IconFallback
}

// SelectableIcons returns every icon an operator may pick, in table order.
// The fallback is not selectable.
func SelectableIcons() []Icon {
	icons := make([]Icon, 0, len(iconTable)-1)
	for i := range iconTable {
		if Icon(i) != IconFallback {
			icons = append(icons, Icon(i))
		}
	}
	return icons
}

// Name returns the stored name of the icon.
func (i Icon) Name() string {
	return i.def().name
}

// Glyph returns the SVG markup for the icon. The markup is a compile-time
// constant and safe to embed verbatim.
func (i Icon) Glyph() string {
	return i.def().glyph
}

func (i Icon) def() iconDef {
	if i < 0 || int(i) >= len(iconTable) {
		return iconTable[IconFallback]
	}
	return iconTable[i]
}
