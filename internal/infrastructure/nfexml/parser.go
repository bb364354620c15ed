// Package nfexml lee el XML de una NFe (nfeProc o NFe) y verifica el digest de la firma.
package nfexml

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"hash"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/ucarion/c14n"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Gestao-api/internal/domain"
	"github.com/jhoicas/Gestao-api/internal/domain/entity"
	"github.com/jhoicas/Gestao-api/pkg/fiscal"
)

const (
	// Prefijo del atributo Id de infNFe: Id="NFe<chave>".
	idPrefix = "NFe"
	// SEM GTIN es el valor de cEAN cuando el producto no tiene código de barras.
	noGTIN = "SEM GTIN"
)

// Parser implementa el puerto nfe.Parser sobre etree.
type Parser struct{}

// NewParser crea el parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse extrae cabecera, ítems (det) y duplicatas (cobr/dup). Todo error de formato
// envuelve domain.ErrInvalidInput; la chave se devuelve sin validar.
func (p *Parser) Parse(raw []byte) (*entity.NFe, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: XML vacío", domain.ErrInvalidInput)
	}
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("%w: XML inválido: %v", domain.ErrInvalidInput, err)
	}
	inf := doc.FindElement("//infNFe")
	if inf == nil {
		return nil, fmt.Errorf("%w: el XML no es una NFe (sin infNFe)", domain.ErrInvalidInput)
	}

	n := &entity.NFe{
		AccessKey:   accessKey(doc, inf),
		Number:      text(inf, "ide/nNF"),
		Series:      text(inf, "ide/serie"),
		EmitterName: text(inf, "emit/xNome"),
	}
	n.EmitterCNPJ = fiscal.OnlyDigits(text(inf, "emit/CNPJ"))
	if n.EmitterCNPJ == "" {
		n.EmitterCNPJ = fiscal.OnlyDigits(text(inf, "emit/CPF"))
	}
	if n.EmitterCNPJ == "" {
		return nil, fmt.Errorf("%w: emitente sin CNPJ/CPF", domain.ErrInvalidInput)
	}

	var err error
	if n.IssueDate, err = issueDate(inf); err != nil {
		return nil, err
	}
	if n.TotalProducts, err = amount(inf, "total/ICMSTot/vProd"); err != nil {
		return nil, err
	}
	if n.TotalAmount, err = amount(inf, "total/ICMSTot/vNF"); err != nil {
		return nil, err
	}
	if n.Items, err = items(inf); err != nil {
		return nil, err
	}
	if n.Duplicates, err = duplicates(inf); err != nil {
		return nil, err
	}
	n.DigestValid = verifyDigest(doc, inf)
	return n, nil
}

// charsetReader las NFe de algunos emisores llegan en ISO-8859-1.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToUpper(strings.ReplaceAll(label, "_", "-")) {
	case "ISO-8859-1", "ISO8859-1", "LATIN1":
		return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
	case "WINDOWS-1252", "CP1252":
		return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
	case "UTF-8", "":
		return input, nil
	default:
		return nil, fmt.Errorf("charset no soportado: %s", label)
	}
}

func text(e *etree.Element, path string) string {
	if el := e.FindElement(path); el != nil {
		return strings.TrimSpace(el.Text())
	}
	return ""
}

// accessKey toma el Id de infNFe; si falta, la chave del protocolo de autorización.
func accessKey(doc *etree.Document, inf *etree.Element) string {
	if id := strings.TrimSpace(inf.SelectAttrValue("Id", "")); id != "" {
		return strings.TrimPrefix(id, idPrefix)
	}
	if ch := doc.FindElement("//protNFe/infProt/chNFe"); ch != nil {
		return strings.TrimSpace(ch.Text())
	}
	return ""
}

// issueDate dhEmi (NFe 3.10+, con zona) o dEmi (2.00, solo fecha).
func issueDate(inf *etree.Element) (time.Time, error) {
	if v := text(inf, "ide/dhEmi"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: dhEmi inválido %q", domain.ErrInvalidInput, v)
		}
		return t, nil
	}
	if v := text(inf, "ide/dEmi"); v != "" {
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: dEmi inválido %q", domain.ErrInvalidInput, v)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: NFe sin fecha de emisión", domain.ErrInvalidInput)
}

func parseDecimal(value, field string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s inválido %q", domain.ErrInvalidInput, field, value)
	}
	return d, nil
}

func amount(e *etree.Element, path string) (decimal.Decimal, error) {
	return parseDecimal(text(e, path), path)
}

func items(inf *etree.Element) ([]entity.NFeItem, error) {
	dets := inf.SelectElements("det")
	out := make([]entity.NFeItem, 0, len(dets))
	for i, det := range dets {
		line := i + 1
		if v := det.SelectAttrValue("nItem", ""); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("%w: nItem inválido %q", domain.ErrInvalidInput, v)
			}
			line = n
		}
		prod := det.SelectElement("prod")
		if prod == nil {
			return nil, fmt.Errorf("%w: det %d sin prod", domain.ErrInvalidInput, line)
		}
		it := entity.NFeItem{
			Line:        line,
			Code:        text(prod, "cProd"),
			EAN:         text(prod, "cEAN"),
			Description: text(prod, "xProd"),
			NCM:         text(prod, "NCM"),
			CFOP:        text(prod, "CFOP"),
			Unit:        text(prod, "uCom"),
			Factor:      decimal.NewFromInt(1),
		}
		if strings.EqualFold(it.EAN, noGTIN) {
			it.EAN = ""
		}
		var err error
		if it.Quantity, err = amount(prod, "qCom"); err != nil {
			return nil, err
		}
		if it.UnitPrice, err = amount(prod, "vUnCom"); err != nil {
			return nil, err
		}
		if it.TotalPrice, err = amount(prod, "vProd"); err != nil {
			return nil, err
		}
		if !it.Quantity.GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: det %d con cantidad no positiva", domain.ErrInvalidInput, line)
		}
		out = append(out, it)
	}
	return out, nil
}

func duplicates(inf *etree.Element) ([]entity.NFeDuplicate, error) {
	cobr := inf.SelectElement("cobr")
	if cobr == nil {
		return nil, nil
	}
	var out []entity.NFeDuplicate
	for _, dup := range cobr.SelectElements("dup") {
		due, err := time.Parse(time.DateOnly, text(dup, "dVenc"))
		if err != nil {
			return nil, fmt.Errorf("%w: dVenc inválido %q", domain.ErrInvalidInput, text(dup, "dVenc"))
		}
		value, err := amount(dup, "vDup")
		if err != nil {
			return nil, err
		}
		out = append(out, entity.NFeDuplicate{Number: text(dup, "nDup"), DueDate: due, Amount: value})
	}
	return out, nil
}

// verifyDigest compara el DigestValue de la firma con el digest del infNFe canonicalizado.
// nil si el documento no trae firma.
func verifyDigest(doc *etree.Document, inf *etree.Element) *bool {
	ref := doc.FindElement("//Signature/SignedInfo/Reference")
	if ref == nil {
		return nil
	}
	expected := strings.TrimSpace(text(ref, "DigestValue"))
	if expected == "" {
		return nil
	}
	alg := ""
	if m := ref.SelectElement("DigestMethod"); m != nil {
		alg = m.SelectAttrValue("Algorithm", "")
	}
	got, err := digestInfNFe(inf, alg)
	valid := err == nil && got == expected
	return &valid
}

// digestInfNFe C14N 1.0 inclusiva del infNFe: el apex hereda el xmlns por defecto del ancestro.
func digestInfNFe(inf *etree.Element, algorithm string) (string, error) {
	el := inf.Copy()
	if ns := inf.NamespaceURI(); ns != "" && el.Space == "" && el.SelectAttr("xmlns") == nil {
		el.CreateAttr("xmlns", ns)
	}
	out := etree.NewDocument()
	out.SetRoot(el)
	serialized, err := out.WriteToBytes()
	if err != nil {
		return "", fmt.Errorf("serializar infNFe: %w", err)
	}
	dec := xml.NewDecoder(bytes.NewReader(serialized))
	dec.Entity = map[string]string{}
	canonical, err := c14n.Canonicalize(dec)
	if err != nil {
		return "", fmt.Errorf("canonicalizar infNFe: %w", err)
	}

	var h hash.Hash
	if strings.Contains(strings.ToLower(algorithm), "sha256") {
		h = sha256.New()
	} else {
		h = sha1.New()
	}
	h.Write(canonical)
	return base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}
