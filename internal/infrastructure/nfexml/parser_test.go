package nfexml

import (
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/Gestao-api/internal/domain"
)

const accessKeyFixture = "35240611222333000181550010000012341123456782"

const nfeProcFixture = `<?xml version="1.0" encoding="UTF-8"?>
<nfeProc xmlns="http://www.portalfiscal.inf.br/nfe" versao="4.00">
  <NFe xmlns="http://www.portalfiscal.inf.br/nfe">
    <infNFe Id="NFe` + accessKeyFixture + `" versao="4.00">
      <ide><serie>1</serie><nNF>1234</nNF><dhEmi>2024-06-10T09:30:00-03:00</dhEmi></ide>
      <emit><CNPJ>11222333000181</CNPJ><xNome>Laticinios Serra</xNome></emit>
      <det nItem="1">
        <prod><cProd>L1</cProd><cEAN>7891000100103</cEAN><xProd>Leite integral 1L</xProd><NCM>04012010</NCM><CFOP>5102</CFOP><uCom>CX</uCom><qCom>5.0000</qCom><vUnCom>48.0000000000</vUnCom><vProd>240.00</vProd></prod>
      </det>
      <det nItem="2">
        <prod><cProd>M7</cProd><cEAN>SEM GTIN</cEAN><xProd>Manteiga 500g</xProd><NCM>04051000</NCM><CFOP>5102</CFOP><uCom>UN</uCom><qCom>10</qCom><vUnCom>6.00</vUnCom><vProd>60.00</vProd></prod>
      </det>
      <total><ICMSTot><vProd>300.00</vProd><vNF>300.00</vNF></ICMSTot></total>
      <cobr>
        <dup><nDup>001</nDup><dVenc>2024-07-10</dVenc><vDup>150.00</vDup></dup>
        <dup><nDup>002</nDup><dVenc>2024-08-10</dVenc><vDup>150.00</vDup></dup>
      </cobr>
    </infNFe>
    <Signature xmlns="http://www.w3.org/2000/09/xmldsig#">
      <SignedInfo>
        <Reference URI="#NFe` + accessKeyFixture + `">
          <DigestMethod Algorithm="http://www.w3.org/2000/09/xmldsig#sha1"/>
          <DigestValue>{{DIGEST}}</DigestValue>
        </Reference>
      </SignedInfo>
    </Signature>
  </NFe>
  <protNFe versao="4.00"><infProt><chNFe>` + accessKeyFixture + `</chNFe></infProt></protNFe>
</nfeProc>`

// signedFixture sustituye el DigestValue por el digest real del infNFe.
func signedFixture(t *testing.T) string {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(nfeProcFixture))
	inf := doc.FindElement("//infNFe")
	require.NotNil(t, inf)
	digest, err := digestInfNFe(inf, "")
	require.NoError(t, err)
	return strings.Replace(nfeProcFixture, "{{DIGEST}}", digest, 1)
}

func TestParse_NFeProc(t *testing.T) {
	n, err := NewParser().Parse([]byte(signedFixture(t)))
	require.NoError(t, err)

	assert.Equal(t, accessKeyFixture, n.AccessKey)
	assert.Equal(t, "1234", n.Number)
	assert.Equal(t, "1", n.Series)
	assert.Equal(t, "11222333000181", n.EmitterCNPJ)
	assert.Equal(t, "Laticinios Serra", n.EmitterName)
	assert.True(t, n.IssueDate.Equal(time.Date(2024, 6, 10, 12, 30, 0, 0, time.UTC)))
	assert.Equal(t, "300", n.TotalProducts.String())
	assert.Equal(t, "300", n.TotalAmount.String())

	require.Len(t, n.Items, 2)
	assert.Equal(t, 1, n.Items[0].Line)
	assert.Equal(t, "L1", n.Items[0].Code)
	assert.Equal(t, "7891000100103", n.Items[0].EAN)
	assert.Equal(t, "5", n.Items[0].Quantity.String())
	assert.Equal(t, "48", n.Items[0].UnitPrice.String())
	assert.Equal(t, "1", n.Items[0].Factor.String())
	assert.Empty(t, n.Items[1].EAN, "SEM GTIN se descarta")

	require.Len(t, n.Duplicates, 2)
	assert.Equal(t, "002", n.Duplicates[1].Number)
	assert.Equal(t, time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC), n.Duplicates[1].DueDate)
	assert.Equal(t, "150", n.Duplicates[1].Amount.String())

	require.NotNil(t, n.DigestValid)
	assert.True(t, *n.DigestValid)
}

func TestParse_DigestAlterado(t *testing.T) {
	tampered := strings.Replace(signedFixture(t), "<vNF>300.00</vNF>", "<vNF>30.00</vNF>", 1)

	n, err := NewParser().Parse([]byte(tampered))
	require.NoError(t, err)
	require.NotNil(t, n.DigestValid)
	assert.False(t, *n.DigestValid)
}

func TestParse_SinFirma(t *testing.T) {
	start := strings.Index(nfeProcFixture, "<Signature")
	end := strings.Index(nfeProcFixture, "</Signature>") + len("</Signature>")
	unsigned := nfeProcFixture[:start] + nfeProcFixture[end:]

	n, err := NewParser().Parse([]byte(unsigned))
	require.NoError(t, err)
	assert.Nil(t, n.DigestValid)
}

func TestParse_ChaveDelProtocolo(t *testing.T) {
	raw := strings.Replace(nfeProcFixture, `Id="NFe`+accessKeyFixture+`" `, "", 1)

	n, err := NewParser().Parse([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, accessKeyFixture, n.AccessKey)
}

func TestParse_ISO88591(t *testing.T) {
	doc := strings.Replace(nfeProcFixture, `encoding="UTF-8"`, `encoding="ISO-8859-1"`, 1)
	doc = strings.Replace(doc, "Laticinios Serra", "Laticínios São José", 1)
	latin1, err := charmap.ISO8859_1.NewEncoder().String(doc)
	require.NoError(t, err)

	n, err := NewParser().Parse([]byte(latin1))
	require.NoError(t, err)
	assert.Equal(t, "Laticínios São José", n.EmitterName)
}

func TestParse_DEmiVersion2(t *testing.T) {
	raw := strings.Replace(nfeProcFixture, "<dhEmi>2024-06-10T09:30:00-03:00</dhEmi>", "<dEmi>2010-03-01</dEmi>", 1)

	n, err := NewParser().Parse([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2010, 3, 1, 0, 0, 0, 0, time.UTC), n.IssueDate)
}

func TestParse_Errores(t *testing.T) {
	cases := map[string]string{
		"vacío":          "  ",
		"no es XML":      "esto no es xml <",
		"no es NFe":      `<?xml version="1.0"?><pedido><id>1</id></pedido>`,
		"sin emitente":   strings.Replace(nfeProcFixture, "<CNPJ>11222333000181</CNPJ>", "", 1),
		"sin fecha":      strings.Replace(nfeProcFixture, "<dhEmi>2024-06-10T09:30:00-03:00</dhEmi>", "", 1),
		"cantidad cero":  strings.Replace(nfeProcFixture, "<qCom>10</qCom>", "<qCom>0</qCom>", 1),
		"valor inválido": strings.Replace(nfeProcFixture, "<vNF>300.00</vNF>", "<vNF>abc</vNF>", 1),
		"vencimiento":    strings.Replace(nfeProcFixture, "<dVenc>2024-07-10</dVenc>", "<dVenc>10/07/2024</dVenc>", 1),
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewParser().Parse([]byte(raw))
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}
