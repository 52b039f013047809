package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// OptionType defines the type of value an option expects
type OptionType int

const (
	OptionTypeBool OptionType = iota
	OptionTypeString
	OptionTypeInt
	OptionTypeCount // Each occurrence adds one (-v -vv)
)

// OptionDef defines a command-line option
type OptionDef struct {
	Long        string     // Long option name (without --)
	Short       string     // Short option name (without -)
	Type        OptionType // Type of value expected
	Description string     // Help description
	Default     string     // Default value
}

// ParsedOptions holds the parsed command-line options.
// Options and root paths may be mixed; "--" ends option parsing.
type ParsedOptions struct {
	values   map[string]string
	args     []string
	defs     map[string]*OptionDef
	order    []string          // Definition order, for usage output
	shortMap map[string]string // Maps short options to long options
	setAt    map[string]int    // Position of the last explicit setting
	position int
}

// NewParsedOptions creates a new options parser
func NewParsedOptions() *ParsedOptions {
	return &ParsedOptions{
		values:   make(map[string]string),
		args:     []string{},
		defs:     make(map[string]*OptionDef),
		shortMap: make(map[string]string),
		setAt:    make(map[string]int),
	}
}

// DefineOption defines a command-line option
func (p *ParsedOptions) DefineOption(long, short string, optType OptionType, defaultValue, description string) {
	def := &OptionDef{
		Long:        long,
		Short:       short,
		Type:        optType,
		Description: description,
		Default:     defaultValue,
	}
	if _, exists := p.defs[long]; !exists {
		p.order = append(p.order, long)
	}
	p.defs[long] = def
	if short != "" {
		p.shortMap[short] = long
	}

	if defaultValue != "" {
		p.values[long] = defaultValue
	}
}

// Parse parses command-line arguments
func (p *ParsedOptions) Parse(args []string) error {
	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch {
		case arg == "--":
			p.args = append(p.args, args[i+1:]...)
			return nil
		case strings.HasPrefix(arg, "--"):
			if err := p.parseLongOption(arg); err != nil {
				return err
			}
		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			if err := p.parseShortOptions(arg); err != nil {
				return err
			}
		default:
			p.args = append(p.args, arg)
		}
	}

	return nil
}

// set records an explicit value
func (p *ParsedOptions) set(option, value string) {
	p.position++
	p.values[option] = value
	p.setAt[option] = p.position
}

// parseLongOption parses a long option (--option or --option=value)
func (p *ParsedOptions) parseLongOption(arg string) error {
	optName := strings.TrimPrefix(arg, "--")
	var optValue string
	hasValue := false

	if equalPos := strings.Index(optName, "="); equalPos != -1 {
		optValue = optName[equalPos+1:]
		optName = optName[:equalPos]
		hasValue = true
	}

	def, exists := p.defs[optName]
	if !exists {
		return fmt.Errorf("unknown option: --%s", optName)
	}

	switch def.Type {
	case OptionTypeBool:
		if !hasValue {
			p.set(optName, "true")
			break
		}
		switch optValue {
		case "true", "1":
			p.set(optName, "true")
		case "false", "0":
			p.set(optName, "false")
		default:
			return fmt.Errorf("invalid boolean value for --%s: %s", optName, optValue)
		}

	case OptionTypeCount:
		if !hasValue {
			p.set(optName, strconv.Itoa(p.count(optName)+1))
			break
		}
		if _, err := strconv.Atoi(optValue); err != nil {
			return fmt.Errorf("invalid integer value for --%s: %s", optName, optValue)
		}
		p.set(optName, optValue)

	case OptionTypeString, OptionTypeInt:
		if !hasValue || optValue == "" {
			return fmt.Errorf("option --%s requires a value (use --%s=value)", optName, optName)
		}
		if def.Type == OptionTypeInt {
			if _, err := strconv.Atoi(optValue); err != nil {
				return fmt.Errorf("invalid integer value for --%s: %s", optName, optValue)
			}
		}
		p.set(optName, optValue)
	}

	return nil
}

// parseShortOptions parses short option(s) (-o or -abc).
// Only boolean and counting options can be written in short form.
func (p *ParsedOptions) parseShortOptions(arg string) error {
	for _, r := range strings.TrimPrefix(arg, "-") {
		short := string(r)
		longOpt, exists := p.shortMap[short]
		if !exists {
			return fmt.Errorf("unknown option: -%s", short)
		}

		switch p.defs[longOpt].Type {
		case OptionTypeBool:
			p.set(longOpt, "true")
		case OptionTypeCount:
			p.set(longOpt, strconv.Itoa(p.count(longOpt)+1))
		default:
			return fmt.Errorf("option -%s requires a value (use --%s=value)", short, longOpt)
		}
	}

	return nil
}

// count returns the explicit count of a counting option, ignoring its default
func (p *ParsedOptions) count(option string) int {
	if _, set := p.setAt[option]; !set {
		return 0
	}
	return p.GetInt(option)
}

// GetString returns a string option value
func (p *ParsedOptions) GetString(option string) string {
	return p.values[option]
}

// GetInt returns an integer option value
func (p *ParsedOptions) GetInt(option string) int {
	if val, exists := p.values[option]; exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return 0
}

// GetBool returns a boolean option value
func (p *ParsedOptions) GetBool(option string) bool {
	if val, exists := p.values[option]; exists {
		return val == "true"
	}
	return false
}

// IsSet returns true if an option was explicitly set
func (p *ParsedOptions) IsSet(option string) bool {
	_, set := p.setAt[option]
	return set
}

// Later returns whichever of a and b was set last, or "" if neither was set
func (p *ParsedOptions) Later(a, b string) string {
	posA, setA := p.setAt[a]
	posB, setB := p.setAt[b]
	switch {
	case !setA && !setB:
		return ""
	case !setB || (setA && posA > posB):
		return a
	default:
		return b
	}
}

// GetArgs returns non-option arguments
func (p *ParsedOptions) GetArgs() []string {
	return p.args
}

// ShowUsage writes the option list in definition order
func (p *ParsedOptions) ShowUsage(w io.Writer) {
	for _, long := range p.order {
		def := p.defs[long]

		shortOpt := "    "
		if def.Short != "" {
			shortOpt = fmt.Sprintf("-%s, ", def.Short)
		}

		var valueDesc string
		switch def.Type {
		case OptionTypeString:
			valueDesc = "=VALUE"
		case OptionTypeInt:
			valueDesc = "=N"
		}

		fmt.Fprintf(w, "  %s--%s%s%s%s\n", shortOpt, def.Long, valueDesc,
			strings.Repeat(" ", max(1, 20-len(def.Long)-len(valueDesc))), def.Description)
	}
}
