package lipid

import (
	"fmt"
	"regexp"
	"strconv"
)

// namePattern captures the lipid class, an optional fatty-acid modifier, and
// up to three chain compositions.
var namePattern = regexp.MustCompile(
	`^(?P<cls>[A-Za-z]+)\((?P<mod>[pdoe]*)` +
		`(?P<fc1>[0-9]+):(?P<fu1>[0-9]+)` +
		`(?:/(?P<fc2>[0-9]+):(?P<fu2>[0-9]+))?` +
		`(?:/(?P<fc3>[0-9]+):(?P<fu3>[0-9]+))?\)$`)

// Parse parses a lipid name into its descriptor. Multi-chain names such as
// PC(18:1/20:2) are summed into the total composition (PC 38:3) with the
// individual chains retained.
func Parse(name string) (*Lipid, error) {
	m := namePattern.FindStringSubmatch(name)
	if m == nil {
		return nil, fmt.Errorf("cannot parse %q as a lipid name", name)
	}
	group := func(key string) string {
		return m[namePattern.SubexpIndex(key)]
	}

	l := &Lipid{
		Class: group("cls"),
		FAMod: group("mod"),
	}

	first := Chain{Carbons: mustInt(group("fc1")), Unsaturations: mustInt(group("fu1"))}
	if group("fc2") == "" {
		// Single pair means the total sum composition was given directly.
		l.Carbons = first.Carbons
		l.Unsaturations = first.Unsaturations
		return l, nil
	}

	l.Chains = []Chain{first, {Carbons: mustInt(group("fc2")), Unsaturations: mustInt(group("fu2"))}}
	if group("fc3") != "" {
		l.Chains = append(l.Chains, Chain{Carbons: mustInt(group("fc3")), Unsaturations: mustInt(group("fu3"))})
	}
	for _, c := range l.Chains {
		l.Carbons += c.Carbons
		l.Unsaturations += c.Unsaturations
	}
	return l, nil
}

func mustInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		// The pattern only matches digit runs.
		panic(fmt.Sprintf("lipid: non-numeric capture %q", s))
	}
	return v
}
