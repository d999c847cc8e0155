// SPDX-FileCopyrightText: Copyright The Lima Authors
// SPDX-License-Identifier: Apache-2.0

package sssummary

import (
	"regexp"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Counter is a leading count followed by optional "name N" pairs,
// e.g. "8 (estab 2, closed 0, orphaned 0, timewait 0)".
type Counter struct {
	Count   int64                                 `json:"count"`
	Details *orderedmap.OrderedMap[string, int64] `json:"details,omitempty"`
}

// Transport is a row of the "Transport Total IP IPv6" table.
type Transport struct {
	Name  string `json:"name"`
	Total int64  `json:"total"`
	IP    int64  `json:"ip"`
	IPv6  int64  `json:"ipv6"`
}

// Stats is a typed view over a summary.
type Stats struct {
	Total      int64       `json:"total"`
	TCP        *Counter    `json:"tcp"`
	UDP        *Counter    `json:"udp"`
	Unix       *Counter    `json:"unix"`
	Transports []Transport `json:"transports,omitempty"`
	Details    *Summary    `json:"details"`
}

var (
	leadingCountRE = regexp.MustCompile(`^(\d+)`)
	detailRE       = regexp.MustCompile(`([A-Za-z_][\w-]*)\s+(\d+)`)
)

// NewStats parses raw ss output. TCP and UDP fall back to the transport table
// when the summary has no "TCP:" or "UDP:" line.
func NewStats(raw string) *Stats {
	s := Parse(raw)
	st := &Stats{
		TCP:        CounterOf(s, "TCP"),
		UDP:        CounterOf(s, "UDP"),
		Unix:       CounterOf(s, "UNIX"),
		Transports: ParseTransports(raw),
		Details:    s,
	}
	if total := CounterOf(s, "Total"); total != nil {
		st.Total = total.Count
	}
	for _, tr := range st.Transports {
		switch tr.Name {
		case "TCP":
			if st.TCP == nil {
				st.TCP = &Counter{Count: tr.Total}
			}
		case "UDP":
			if st.UDP == nil {
				st.UDP = &Counter{Count: tr.Total}
			}
		}
	}
	return st
}

// CounterOf returns the counter stored under key, or nil when the key is
// missing, is a section, or does not start with a number.
func CounterOf(s *Summary, key string) *Counter {
	v, ok := s.Get(key)
	if !ok {
		return nil
	}
	if n, ok := v.Int(); ok {
		return &Counter{Count: n}
	}
	text, ok := v.Text()
	if !ok {
		return nil
	}
	m := leadingCountRE.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return nil
	}
	c := &Counter{Count: n}
	for _, d := range detailRE.FindAllStringSubmatch(text[len(m[1]):], -1) {
		dn, err := strconv.ParseInt(d[2], 10, 64)
		if err != nil {
			continue
		}
		if c.Details == nil {
			c.Details = orderedmap.New[string, int64]()
		}
		c.Details.Set(d[1], dn)
	}
	return c
}

// ParseTransports parses the "Transport Total IP IPv6" table.
// Rows that cannot be parsed are skipped; the table ends at the first blank line.
func ParseTransports(text string) []Transport {
	var (
		res        []Transport
		fieldNames map[string]int
	)
	for _, raw := range strings.Split(text, "\n") {
		fields := strings.Fields(raw)
		if fieldNames == nil {
			if len(fields) > 0 && fields[0] == "Transport" {
				fieldNames = make(map[string]int)
				for j := range fields {
					fieldNames[fields[j]] = j
				}
			}
			continue
		}
		if len(fields) == 0 {
			break
		}
		tr := Transport{Name: fields[0]}
		ok := true
		for name, dst := range map[string]*int64{"Total": &tr.Total, "IP": &tr.IP, "IPv6": &tr.IPv6} {
			j, found := fieldNames[name]
			if !found || j >= len(fields) {
				continue
			}
			n, err := strconv.ParseInt(fields[j], 10, 64)
			if err != nil {
				ok = false
				break
			}
			*dst = n
		}
		if ok {
			res = append(res, tr)
		}
	}
	return res
}
