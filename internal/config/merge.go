package config

// Merge lays over on top of base field by field. Unset fields in over keep
// the base value; a theme not present in base is merged over the base's
// default theme so partial themes still render.
func Merge(base, over File) File {
	cfg := base.clone()

	a, o := &cfg.App.About, over.App.About
	if o.Name != "" {
		a.Name = o.Name
	}
	if o.Description != "" {
		a.Description = o.Description
	}
	if o.License != "" {
		a.License = o.License
	}
	if o.RepositoryURL != "" {
		a.RepositoryURL = o.RepositoryURL
	}
	if o.Author != "" {
		a.Author = o.Author
	}
	if len(o.Details) > 0 {
		a.Details = append([]string(nil), o.Details...)
	}

	ui := &cfg.UI
	if over.UI.Theme.Default != "" {
		ui.Theme.Default = over.UI.Theme.Default
	}
	for name, themeCfg := range over.UI.Themes {
		b, ok := ui.Themes[name]
		if !ok {
			b = base.UI.Themes[base.UI.Theme.Default]
		}
		ui.Themes[name] = MergeTheme(b, themeCfg)
	}
	if over.UI.Highlight.Enabled != nil {
		ui.Highlight.Enabled = over.UI.Highlight.Enabled
	}
	if over.UI.Highlight.Style != "" {
		ui.Highlight.Style = over.UI.Highlight.Style
	}
	if over.UI.Highlight.Formatter != "" {
		ui.Highlight.Formatter = over.UI.Highlight.Formatter
	}
	if over.UI.Viewer.Indent != nil {
		ui.Viewer.Indent = over.UI.Viewer.Indent
	}
	if over.UI.Editor.LineNumbers != nil {
		ui.Editor.LineNumbers = over.UI.Editor.LineNumbers
	}
	if over.UI.Editor.Placeholder != "" {
		ui.Editor.Placeholder = over.UI.Editor.Placeholder
	}
	if over.UI.Layout.InputPercent != nil {
		ui.Layout.InputPercent = over.UI.Layout.InputPercent
	}
	if over.UI.Layout.ShowOptions != nil {
		ui.Layout.ShowOptions = over.UI.Layout.ShowOptions
	}

	p := &cfg.Parser
	if len(over.Parser.Options) > 0 {
		if p.Options == nil {
			p.Options = map[string]bool{}
		}
		for k, v := range over.Parser.Options {
			p.Options[k] = v
		}
	}
	if over.Parser.Limits.MaxInputBytes != nil {
		p.Limits.MaxInputBytes = over.Parser.Limits.MaxInputBytes
	}
	if over.Parser.Limits.MaxNodes != nil {
		p.Limits.MaxNodes = over.Parser.Limits.MaxNodes
	}
	if len(over.Parser.CJKNouns) > 0 {
		p.CJKNouns = append([]string(nil), over.Parser.CJKNouns...)
	}
	if over.Parser.CJKNounsField != "" {
		p.CJKNounsField = over.Parser.CJKNounsField
	}
	return cfg
}

// MergeTheme overlays the non-empty colors of override onto base.
func MergeTheme(base, override ThemeConfig) ThemeConfig {
	merged := base
	pick := func(dst *ColorValue, src ColorValue) {
		if src != "" {
			*dst = src
		}
	}
	pick(&merged.Accent, override.Accent)
	pick(&merged.Muted, override.Muted)
	pick(&merged.Text, override.Text)
	pick(&merged.Border, override.Border)
	pick(&merged.BorderFocus, override.BorderFocus)
	pick(&merged.HeaderFG, override.HeaderFG)
	pick(&merged.HeaderBG, override.HeaderBG)
	pick(&merged.TabActiveFG, override.TabActiveFG)
	pick(&merged.TabActiveBG, override.TabActiveBG)
	pick(&merged.SelectedFG, override.SelectedFG)
	pick(&merged.SelectedBG, override.SelectedBG)
	pick(&merged.Key, override.Key)
	pick(&merged.Label, override.Label)
	pick(&merged.String, override.String)
	pick(&merged.Number, override.Number)
	pick(&merged.Bool, override.Bool)
	pick(&merged.Null, override.Null)
	pick(&merged.Bracket, override.Bracket)
	pick(&merged.Code, override.Code)
	pick(&merged.Gutter, override.Gutter)
	pick(&merged.StatusColor, override.StatusColor)
	pick(&merged.StatusError, override.StatusError)
	pick(&merged.StatusOK, override.StatusOK)
	pick(&merged.FooterFG, override.FooterFG)
	pick(&merged.FooterBG, override.FooterBG)
	pick(&merged.HelpKey, override.HelpKey)
	pick(&merged.HelpValue, override.HelpValue)
	if override.BorderStyle != "" {
		merged.BorderStyle = override.BorderStyle
	}
	return merged
}
