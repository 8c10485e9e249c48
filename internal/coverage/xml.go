package coverage

import (
	"encoding/xml"
	"errors"
	"io"
	"strconv"
)

// JaCoCo report DOCTYPE identifiers.
const (
	DoctypePublicID = "-//JACOCO//DTD Report 1.0//EN"
	DoctypeSystemID = "report.dtd"
)

// Doctype returns the DOCTYPE directive body written before the report root.
func Doctype() string {
	return `DOCTYPE report PUBLIC "` + DoctypePublicID + `" "` + DoctypeSystemID + `"`
}

// ErrVisitorState is returned when visitor calls arrive out of order.
var ErrVisitorState = errors.New("xml visitor: invalid call order")

type xmlCounter struct {
	XMLName xml.Name `xml:"counter"`
	Type    string   `xml:"type,attr"`
	Missed  int      `xml:"missed,attr"`
	Covered int      `xml:"covered,attr"`
}

type xmlLine struct {
	XMLName xml.Name `xml:"line"`
	Nr      int      `xml:"nr,attr"`
	MI      int      `xml:"mi,attr"`
	CI      int      `xml:"ci,attr"`
	MB      int      `xml:"mb,attr"`
	CB      int      `xml:"cb,attr"`
}

// XMLVisitor streams a coverage report in the JaCoCo XML grammar:
// report > group > group (bundle) > package > class/sourcefile.
// Counters of groups and the report are summed as bundles are visited and
// written when the enclosing element ends.
type XMLVisitor struct {
	enc      *xml.Encoder
	counters Counters
	open     *GroupVisitor
	ended    bool
}

// NewXMLVisitor writes the XML declaration, the DOCTYPE and the opening
// report element named name.
func NewXMLVisitor(w io.Writer, name string) (*XMLVisitor, error) {
	v := &XMLVisitor{enc: xml.NewEncoder(w)}

	if err := v.enc.EncodeToken(xml.ProcInst{
		Target: "xml",
		Inst:   []byte(`version="1.0" encoding="UTF-8" standalone="yes"`),
	}); err != nil {
		return nil, err
	}
	if err := v.enc.EncodeToken(xml.Directive(Doctype())); err != nil {
		return nil, err
	}
	if err := v.enc.EncodeToken(startElement("report", "name", name)); err != nil {
		return nil, err
	}
	return v, nil
}

// VisitGroup opens a top-level group. Only one group may be open at a time.
func (v *XMLVisitor) VisitGroup(name string) (*GroupVisitor, error) {
	if v.ended || v.open != nil {
		return nil, ErrVisitorState
	}
	if err := v.enc.EncodeToken(startElement("group", "name", name)); err != nil {
		return nil, err
	}
	v.open = &GroupVisitor{v: v}
	return v.open, nil
}

// End writes the report counters, closes the report element and flushes.
func (v *XMLVisitor) End() error {
	if v.ended || v.open != nil {
		return ErrVisitorState
	}
	v.ended = true
	if err := writeCounters(v.enc, v.counters); err != nil {
		return err
	}
	if err := v.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "report"}}); err != nil {
		return err
	}
	return v.enc.Close()
}

// Counters returns the counters accumulated so far.
func (v *XMLVisitor) Counters() Counters {
	return v.counters
}

// GroupVisitor receives the bundles of one group.
type GroupVisitor struct {
	v        *XMLVisitor
	counters Counters
	ended    bool
}

// VisitBundle writes a bundle as a nested group.
func (g *GroupVisitor) VisitBundle(b *Bundle) error {
	if g.ended {
		return ErrVisitorState
	}
	enc := g.v.enc
	if err := enc.EncodeToken(startElement("group", "name", b.Name)); err != nil {
		return err
	}
	for _, pkg := range b.Packages {
		if err := writePackage(enc, pkg); err != nil {
			return err
		}
	}
	if err := writeCounters(enc, b.Counters); err != nil {
		return err
	}
	if err := enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "group"}}); err != nil {
		return err
	}
	g.counters = g.counters.Add(b.Counters)
	return nil
}

// End writes the group counters and closes the group.
func (g *GroupVisitor) End() error {
	if g.ended {
		return ErrVisitorState
	}
	g.ended = true
	if err := writeCounters(g.v.enc, g.counters); err != nil {
		return err
	}
	if err := g.v.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "group"}}); err != nil {
		return err
	}
	g.v.counters = g.v.counters.Add(g.counters)
	g.v.open = nil
	return nil
}

func writePackage(enc *xml.Encoder, pkg *Package) error {
	if err := enc.EncodeToken(startElement("package", "name", pkg.Name)); err != nil {
		return err
	}
	for _, c := range pkg.Classes {
		if err := writeClass(enc, c); err != nil {
			return err
		}
	}
	for _, sf := range pkg.SourceFiles {
		if err := writeSourceFile(enc, sf); err != nil {
			return err
		}
	}
	if err := writeCounters(enc, pkg.Counters); err != nil {
		return err
	}
	return enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "package"}})
}

func writeClass(enc *xml.Encoder, c *Class) error {
	if err := enc.EncodeToken(startElement("class", "name", c.Name, "sourcefilename", c.SourceFileName)); err != nil {
		return err
	}
	for _, m := range c.Methods {
		start := startElement("method", "name", m.Name, "desc", m.Desc, "line", strconv.Itoa(m.Line))
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		if err := writeCounters(enc, m.Counters); err != nil {
			return err
		}
		if err := enc.EncodeToken(start.End()); err != nil {
			return err
		}
	}
	if err := writeCounters(enc, c.Counters); err != nil {
		return err
	}
	return enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "class"}})
}

func writeSourceFile(enc *xml.Encoder, sf *SourceFile) error {
	if err := enc.EncodeToken(startElement("sourcefile", "name", sf.Name)); err != nil {
		return err
	}
	for _, l := range sf.Lines {
		if err := enc.Encode(xmlLine{Nr: l.Nr, MI: l.MI, CI: l.CI}); err != nil {
			return err
		}
	}
	if err := writeCounters(enc, sf.Counters); err != nil {
		return err
	}
	return enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "sourcefile"}})
}

func writeCounters(enc *xml.Encoder, c Counters) error {
	return c.Each(func(t CounterType, ctr Counter) error {
		return enc.Encode(xmlCounter{Type: string(t), Missed: ctr.Missed, Covered: ctr.Covered})
	})
}

// startElement builds a start element from alternating attribute names and values.
func startElement(local string, attrs ...string) xml.StartElement {
	el := xml.StartElement{Name: xml.Name{Local: local}}
	for i := 0; i+1 < len(attrs); i += 2 {
		el.Attr = append(el.Attr, xml.Attr{Name: xml.Name{Local: attrs[i]}, Value: attrs[i+1]})
	}
	return el
}
