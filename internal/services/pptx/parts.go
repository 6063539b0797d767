// -----------------------------------------------------------------------
// OOXML part generators - typed documents for every dynamic package part
// -----------------------------------------------------------------------

package pptx

import (
	"bytes"
	"embed"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/ternarybob/pdfdeck/internal/models"
)

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const (
	nsContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsDrawingML     = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsOfficeRels    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPresentation  = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsExtendedProps = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
	nsDocPropsVT    = "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes"
	nsCoreProps     = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsDublinCore    = "http://purl.org/dc/elements/1.1/"
	nsDCTerms       = "http://purl.org/dc/terms/"
	nsDCMIType      = "http://purl.org/dc/dcmitype/"
	nsXSI           = "http://www.w3.org/2001/XMLSchema-instance"
)

// Relationship types
const (
	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relExtendedProps  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relSlideMaster    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relSlideLayout    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relSlide          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTheme          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	relImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

// Content types
const (
	ctRelationships = "application/vnd.openxmlformats-package.relationships+xml"
	ctXML           = "application/xml"
	ctPNG           = "image/png"
	ctPresentation  = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctSlideMaster   = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	ctSlideLayout   = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	ctSlide         = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctTheme         = "application/vnd.openxmlformats-officedocument.theme+xml"
	ctExtendedProps = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	ctCoreProps     = "application/vnd.openxmlformats-package.core-properties+xml"
)

// Part paths inside the package
const (
	PathContentTypes      = "[Content_Types].xml"
	PathPackageRels       = "_rels/.rels"
	PathAppProps          = "docProps/app.xml"
	PathCoreProps         = "docProps/core.xml"
	PathPresentation      = "ppt/presentation.xml"
	PathPresentationRels  = "ppt/_rels/presentation.xml.rels"
	PathSlideMaster       = "ppt/slideMasters/slideMaster1.xml"
	PathSlideMasterRels   = "ppt/slideMasters/_rels/slideMaster1.xml.rels"
	PathSlideLayout       = "ppt/slideLayouts/slideLayout1.xml"
	PathSlideLayoutRels   = "ppt/slideLayouts/_rels/slideLayout1.xml.rels"
	PathTheme             = "ppt/theme/theme1.xml"
	presentationRelOffset = 3 // rId1 master, rId2 theme, slides from rId3
)

//go:embed templates/*.xml
var templates embed.FS

// SlidePath returns the part path of slide n (1-based)
func SlidePath(n int) string { return fmt.Sprintf("ppt/slides/slide%d.xml", n) }

// SlideRelsPath returns the relationships part of slide n (1-based)
func SlideRelsPath(n int) string { return fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n) }

// MediaPath returns the image part of slide n (1-based)
func MediaPath(n int) string { return fmt.Sprintf("ppt/media/image%d.png", n) }

func marshalPart(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xmlDeclaration)
	if err := xml.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func templatePart(name string) ([]byte, error) {
	return templates.ReadFile("templates/" + name)
}

// [Content_Types].xml

type contentTypes struct {
	XMLName   xml.Name              `xml:"http://schemas.openxmlformats.org/package/2006/content-types Types"`
	Defaults  []contentTypeDefault  `xml:"Default"`
	Overrides []contentTypeOverride `xml:"Override"`
}

type contentTypeDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type contentTypeOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

func contentTypesXML(slideCount int) ([]byte, error) {
	ct := contentTypes{
		Defaults: []contentTypeDefault{
			{Extension: "rels", ContentType: ctRelationships},
			{Extension: "xml", ContentType: ctXML},
			{Extension: "png", ContentType: ctPNG},
		},
		Overrides: []contentTypeOverride{
			{PartName: "/" + PathPresentation, ContentType: ctPresentation},
			{PartName: "/" + PathSlideMaster, ContentType: ctSlideMaster},
			{PartName: "/" + PathSlideLayout, ContentType: ctSlideLayout},
			{PartName: "/" + PathTheme, ContentType: ctTheme},
			{PartName: "/" + PathAppProps, ContentType: ctExtendedProps},
			{PartName: "/" + PathCoreProps, ContentType: ctCoreProps},
		},
	}
	for i := 1; i <= slideCount; i++ {
		ct.Overrides = append(ct.Overrides, contentTypeOverride{PartName: "/" + SlidePath(i), ContentType: ctSlide})
	}
	return marshalPart(ct)
}

// Relationship parts

type relationships struct {
	XMLName       xml.Name       `xml:"http://schemas.openxmlformats.org/package/2006/relationships Relationships"`
	Relationships []relationship `xml:"Relationship"`
}

type relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

func rID(n int) string { return fmt.Sprintf("rId%d", n) }

func packageRelsXML() ([]byte, error) {
	return marshalPart(relationships{Relationships: []relationship{
		{ID: rID(1), Type: relOfficeDocument, Target: PathPresentation},
		{ID: rID(2), Type: relExtendedProps, Target: PathAppProps},
		{ID: rID(3), Type: relCoreProps, Target: PathCoreProps},
	}})
}

func presentationRelsXML(slideCount int) ([]byte, error) {
	rels := relationships{Relationships: []relationship{
		{ID: rID(1), Type: relSlideMaster, Target: "slideMasters/slideMaster1.xml"},
		{ID: rID(2), Type: relTheme, Target: "theme/theme1.xml"},
	}}
	for i := 0; i < slideCount; i++ {
		rels.Relationships = append(rels.Relationships, relationship{
			ID:     rID(i + presentationRelOffset),
			Type:   relSlide,
			Target: fmt.Sprintf("slides/slide%d.xml", i+1),
		})
	}
	return marshalPart(rels)
}

func slideMasterRelsXML() ([]byte, error) {
	return marshalPart(relationships{Relationships: []relationship{
		{ID: rID(1), Type: relSlideLayout, Target: "../slideLayouts/slideLayout1.xml"},
		{ID: rID(2), Type: relTheme, Target: "../theme/theme1.xml"},
	}})
}

func slideLayoutRelsXML() ([]byte, error) {
	return marshalPart(relationships{Relationships: []relationship{
		{ID: rID(1), Type: relSlideMaster, Target: "../slideMasters/slideMaster1.xml"},
	}})
}

func slideRelsXML(slideNumber int) ([]byte, error) {
	return marshalPart(relationships{Relationships: []relationship{
		{ID: rID(1), Type: relSlideLayout, Target: "../slideLayouts/slideLayout1.xml"},
		{ID: rID(2), Type: relImage, Target: fmt.Sprintf("../media/image%d.png", slideNumber)},
	}})
}

// ppt/presentation.xml

type presentation struct {
	XMLName          xml.Name         `xml:"p:presentation"`
	XmlnsA           string           `xml:"xmlns:a,attr"`
	XmlnsR           string           `xml:"xmlns:r,attr"`
	XmlnsP           string           `xml:"xmlns:p,attr"`
	SaveSubsetFonts  string           `xml:"saveSubsetFonts,attr"`
	SlideMasterIDs   []slideMasterRef `xml:"p:sldMasterIdLst>p:sldMasterId"`
	SlideIDs         []slideRef       `xml:"p:sldIdLst>p:sldId"`
	SlideSize        slideSize        `xml:"p:sldSz"`
	NotesSize        extent           `xml:"p:notesSz"`
	DefaultTextStyle struct{}         `xml:"p:defaultTextStyle"`
}

type slideMasterRef struct {
	ID  uint32 `xml:"id,attr"`
	RID string `xml:"r:id,attr"`
}

type slideRef struct {
	ID  int    `xml:"id,attr"`
	RID string `xml:"r:id,attr"`
}

type slideSize struct {
	Cx   int64  `xml:"cx,attr"`
	Cy   int64  `xml:"cy,attr"`
	Type string `xml:"type,attr"`
}

type extent struct {
	Cx int64 `xml:"cx,attr"`
	Cy int64 `xml:"cy,attr"`
}

func presentationXML(slideCount int) ([]byte, error) {
	p := presentation{
		XmlnsA:          nsDrawingML,
		XmlnsR:          nsOfficeRels,
		XmlnsP:          nsPresentation,
		SaveSubsetFonts: "1",
		SlideMasterIDs:  []slideMasterRef{{ID: SlideMasterID, RID: rID(1)}},
		SlideSize:       slideSize{Cx: SlideWidthEMU, Cy: SlideHeightEMU, Type: "screen4x3"},
		NotesSize:       extent{Cx: SlideHeightEMU, Cy: SlideWidthEMU},
	}
	for i := 0; i < slideCount; i++ {
		p.SlideIDs = append(p.SlideIDs, slideRef{ID: FirstSlideID + i, RID: rID(i + presentationRelOffset)})
	}
	return marshalPart(p)
}

// ppt/slides/slideN.xml

type slide struct {
	XMLName  xml.Name     `xml:"p:sld"`
	XmlnsA   string       `xml:"xmlns:a,attr"`
	XmlnsR   string       `xml:"xmlns:r,attr"`
	XmlnsP   string       `xml:"xmlns:p,attr"`
	Tree     shapeTree    `xml:"p:cSld>p:spTree"`
	ColorMap colorMapping `xml:"p:clrMapOvr"`
}

type colorMapping struct {
	MasterColorMapping struct{} `xml:"a:masterClrMapping"`
}

type shapeTree struct {
	GroupProps nvGroupProps `xml:"p:nvGrpSpPr"`
	GroupXfrm  groupXfrm    `xml:"p:grpSpPr>a:xfrm"`
	Shape      placeholder  `xml:"p:sp"`
	Picture    picture      `xml:"p:pic"`
}

type nvGroupProps struct {
	NonVisual  cNvPr    `xml:"p:cNvPr"`
	GroupShape struct{} `xml:"p:cNvGrpSpPr"`
	AppProps   struct{} `xml:"p:nvPr"`
}

type cNvPr struct {
	ID    int    `xml:"id,attr"`
	Name  string `xml:"name,attr"`
	Descr string `xml:"descr,attr,omitempty"`
}

type offset struct {
	X int64 `xml:"x,attr"`
	Y int64 `xml:"y,attr"`
}

type groupXfrm struct {
	Off      offset `xml:"a:off"`
	Ext      extent `xml:"a:ext"`
	ChildOff offset `xml:"a:chOff"`
	ChildExt extent `xml:"a:chExt"`
}

type xfrm struct {
	Off offset `xml:"a:off"`
	Ext extent `xml:"a:ext"`
}

type placeholder struct {
	NonVisual struct {
		Props     cNvPr `xml:"p:cNvPr"`
		ShapeProp struct {
			Locks struct {
				NoGroup string `xml:"noGrp,attr"`
			} `xml:"a:spLocks"`
		} `xml:"p:cNvSpPr"`
		AppProps struct {
			Placeholder struct {
				Type string `xml:"type,attr"`
			} `xml:"p:ph"`
		} `xml:"p:nvPr"`
	} `xml:"p:nvSpPr"`
	ShapeProps struct{} `xml:"p:spPr"`
	TextBody   struct {
		BodyProps struct{} `xml:"a:bodyPr"`
		ListStyle struct{} `xml:"a:lstStyle"`
		Paragraph struct {
			EndRun struct {
				Lang string `xml:"lang,attr"`
			} `xml:"a:endParaRPr"`
		} `xml:"a:p"`
	} `xml:"p:txBody"`
}

type picture struct {
	NonVisual struct {
		Props       cNvPr `xml:"p:cNvPr"`
		PictureProp struct {
			Locks struct {
				NoChangeAspect string `xml:"noChangeAspect,attr"`
			} `xml:"a:picLocks"`
		} `xml:"p:cNvPicPr"`
		AppProps struct{} `xml:"p:nvPr"`
	} `xml:"p:nvPicPr"`
	BlipFill struct {
		Blip struct {
			Embed string `xml:"r:embed,attr"`
		} `xml:"a:blip"`
		FillRect struct{} `xml:"a:stretch>a:fillRect"`
	} `xml:"p:blipFill"`
	ShapeProps struct {
		Xfrm     xfrm `xml:"a:xfrm"`
		Geometry struct {
			Preset string   `xml:"prst,attr"`
			AvList struct{} `xml:"a:avLst"`
		} `xml:"a:prstGeom"`
	} `xml:"p:spPr"`
}

func slideXML(slideNumber int, geometry models.SlideGeometry) ([]byte, error) {
	s := slide{
		XmlnsA: nsDrawingML,
		XmlnsR: nsOfficeRels,
		XmlnsP: nsPresentation,
	}
	s.Tree.GroupProps.NonVisual = cNvPr{ID: 1, Name: ""}

	s.Tree.Shape.NonVisual.Props = cNvPr{ID: 2, Name: "Title 1"}
	s.Tree.Shape.NonVisual.ShapeProp.Locks.NoGroup = "1"
	s.Tree.Shape.NonVisual.AppProps.Placeholder.Type = "title"
	s.Tree.Shape.TextBody.Paragraph.EndRun.Lang = "en-US"

	pic := &s.Tree.Picture
	pic.NonVisual.Props = cNvPr{ID: 3, Name: fmt.Sprintf("Page %d", slideNumber), Descr: fmt.Sprintf("image%d.png", slideNumber)}
	pic.NonVisual.PictureProp.Locks.NoChangeAspect = "1"
	pic.BlipFill.Blip.Embed = rID(2)
	pic.ShapeProps.Xfrm = xfrm{
		Off: offset{X: geometry.OffX, Y: geometry.OffY},
		Ext: extent{Cx: geometry.ExtCx, Cy: geometry.ExtCy},
	}
	pic.ShapeProps.Geometry.Preset = "rect"

	return marshalPart(s)
}

// docProps/app.xml

type appProperties struct {
	XMLName            xml.Name `xml:"http://schemas.openxmlformats.org/officeDocument/2006/extended-properties Properties"`
	XmlnsVT            string   `xml:"xmlns:vt,attr"`
	TotalTime          int      `xml:"TotalTime"`
	Application        string   `xml:"Application"`
	PresentationFormat string   `xml:"PresentationFormat"`
	Slides             int      `xml:"Slides"`
	Notes              int      `xml:"Notes"`
	HiddenSlides       int      `xml:"HiddenSlides"`
	MMClips            int      `xml:"MMClips"`
	ScaleCrop          bool     `xml:"ScaleCrop"`
	LinksUpToDate      bool     `xml:"LinksUpToDate"`
	SharedDoc          bool     `xml:"SharedDoc"`
	AppVersion         string   `xml:"AppVersion"`
}

func appPropsXML(application string, slideCount int) ([]byte, error) {
	return marshalPart(appProperties{
		XmlnsVT:            nsDocPropsVT,
		Application:        application,
		PresentationFormat: "On-screen Show (4:3)",
		Slides:             slideCount,
		AppVersion:         "16.0000",
	})
}

// docProps/core.xml

type coreProperties struct {
	XMLName        xml.Name `xml:"cp:coreProperties"`
	XmlnsCP        string   `xml:"xmlns:cp,attr"`
	XmlnsDC        string   `xml:"xmlns:dc,attr"`
	XmlnsDCTerms   string   `xml:"xmlns:dcterms,attr"`
	XmlnsDCMIType  string   `xml:"xmlns:dcmitype,attr"`
	XmlnsXSI       string   `xml:"xmlns:xsi,attr"`
	Title          string   `xml:"dc:title"`
	Creator        string   `xml:"dc:creator,omitempty"`
	LastModifiedBy string   `xml:"cp:lastModifiedBy,omitempty"`
	Revision       int      `xml:"cp:revision"`
	Created        w3cdtf   `xml:"dcterms:created"`
	Modified       w3cdtf   `xml:"dcterms:modified"`
}

type w3cdtf struct {
	Type  string `xml:"xsi:type,attr"`
	Value string `xml:",chardata"`
}

// W3CDTFLayout is the dcterms:W3CDTF timestamp format used in core.xml
const W3CDTFLayout = "2006-01-02T15:04:05Z"

func corePropsXML(title, creator string, stamp time.Time) ([]byte, error) {
	ts := w3cdtf{Type: "dcterms:W3CDTF", Value: stamp.UTC().Format(W3CDTFLayout)}
	return marshalPart(coreProperties{
		XmlnsCP:        nsCoreProps,
		XmlnsDC:        nsDublinCore,
		XmlnsDCTerms:   nsDCTerms,
		XmlnsDCMIType:  nsDCMIType,
		XmlnsXSI:       nsXSI,
		Title:          title,
		Creator:        creator,
		LastModifiedBy: creator,
		Revision:       1,
		Created:        ts,
		Modified:       ts,
	})
}
