package hero

// SourceBuiltin marks definitions that ship with herogen.
const SourceBuiltin = "builtin"

// Builtin returns the hero catalog for the launch articles. Each call
// returns fresh, normalized copies that callers may modify.
func Builtin() []*Definition {
	var (
		red    = RGB(239, 68, 68)
		orange = RGB(249, 115, 22)
		blue   = RGB(59, 130, 246)
	)

	defs := []*Definition{
		{
			Slug:     "benign-arbitrage-theory",
			Title:    "良性套利论",
			Subtitle: "Benign Arbitrage Theory",
			Tagline:  "当\"贪婪\"成为去中心化世界的稳定器",
			Motif:    "orbit",
			Palette:  DefaultPalette(),
			Corners: &Corners{
				Size:        150,
				Alpha:       80,
				TopLeft:     DefaultPalette().Primary,
				BottomRight: DefaultPalette().Warm,
			},
			Layout: Layout{
				TitleY:       0.15,
				TitleSize:    72,
				SubtitleSize: 32,
				TaglineSize:  20,
				ShadowOffset: 3,
				SubtitleGap:  90,
			},
		},
		{
			Slug:     "web3-security-trends-2025",
			Title:    "2025年Web3安全趋势展望",
			Subtitle: "Web3 Security Trends 2025",
			Tagline:  "新兴威胁与防护策略",
			Motif:    "shield",
			Palette: Palette{
				Background: RGB(12, 17, 35),
				Primary:    RGB(34, 211, 238),
				Secondary:  blue,
				Warm:       orange,
				Alert:      red,
			},
			Orbs: []Orb{
				{X: 0.2, Y: 0.25, Radius: 350, From: red, To: orange, Alpha: 30},
				{X: 0.8, Y: 0.75, Radius: 400, From: blue, To: RGB(34, 211, 238), Alpha: 35},
				{X: 0.5, Y: 0.5, Radius: 300, From: RGB(34, 211, 238), To: blue, Alpha: 20},
			},
			Corners: &Corners{Size: 120, Alpha: 100, TopLeft: red, BottomRight: blue},
		},
		{
			Slug:     "smart-contract-audit-guide",
			Title:    "智能合约审计完全指南",
			Subtitle: "Complete Guide to Smart Contract Auditing",
			Tagline:  "从入门到精通的审计方法论",
			Motif:    "checklist",
			Palette: Palette{
				Background: RGB(17, 24, 39),
				Primary:    RGB(34, 197, 94),
				Secondary:  RGB(168, 85, 247),
				Accent:     RGB(16, 185, 129),
				Warm:       RGB(245, 158, 11),
			},
			Orbs: []Orb{
				{X: 0.15, Y: 0.25, Radius: 200, From: RGB(34, 197, 94), Alpha: 30},
				{X: 0.85, Y: 0.75, Radius: 180, From: RGB(245, 158, 11), Alpha: 30},
				{X: 0.5, Y: 0.85, Radius: 150, From: RGB(168, 85, 247), Alpha: 30},
			},
		},
		{
			Slug:     "defi-risk-management",
			Title:    "DeFi风险管理最佳实践",
			Subtitle: "DeFi Risk Management Best Practices",
			Tagline:  "识别风险，保护资产",
			Motif:    "scale",
			Palette: Palette{
				Background: RGB(20, 20, 31),
				Primary:    RGB(6, 182, 212),
				Secondary:  blue,
				Accent:     orange,
				Warm:       RGB(234, 179, 8),
				Alert:      red,
			},
			Orbs: []Orb{
				{X: 0.25, Y: 0.3, Radius: 380, From: red, To: orange, Alpha: 35},
				{X: 0.75, Y: 0.7, Radius: 350, From: blue, To: RGB(6, 182, 212), Alpha: 40},
				{X: 0.5, Y: 0.5, Radius: 280, From: RGB(234, 179, 8), To: orange, Alpha: 25},
			},
		},
	}

	for _, d := range defs {
		d.Source = SourceBuiltin
		d.Normalize()
	}
	return defs
}
