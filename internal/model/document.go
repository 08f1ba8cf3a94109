package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DocumentType is the closed set of compliance document kinds.
type DocumentType string

const (
	DocCarnetSalud   DocumentType = "carnet_salud"
	DocCertSeguridad DocumentType = "cert_seguridad"
	DocEntregaEPP    DocumentType = "entrega_epp"
	DocReciboSueldo  DocumentType = "recibo_sueldo"
	DocCertDGI       DocumentType = "cert_dgi"
	DocCertBPS       DocumentType = "cert_bps"
	DocCertSeguro    DocumentType = "cert_seguro"
)

// DocumentTypeLabels maps document kinds to their display labels.
var DocumentTypeLabels = map[DocumentType]string{
	DocCarnetSalud:   "Carnet de Salud",
	DocCertSeguridad: "Certificado de Seguridad",
	DocEntregaEPP:    "Entrega de EPP",
	DocReciboSueldo:  "Recibo de Sueldo",
	DocCertDGI:       "Certificado DGI",
	DocCertBPS:       "Certificado BPS",
	DocCertSeguro:    "Certificado de Seguro",
}

// IsValidDocumentType reports whether t is one of the known kinds.
func IsValidDocumentType(t DocumentType) bool {
	_, ok := DocumentTypeLabels[t]
	return ok
}

// DocumentMetadata carries searchable descriptive fields.
type DocumentMetadata struct {
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Keywords     []string           `bson:"keywords" json:"keywords"`
	Category     string             `bson:"category" json:"category"`
	Tags         []string           `bson:"tags" json:"tags"`
	LastModified time.Time          `bson:"lastModified" json:"lastModified"`
	ModifiedBy   primitive.ObjectID `bson:"modifiedBy,omitempty" json:"modifiedBy,omitempty"`
	Version      int                `bson:"version" json:"version"`
}

// AuditAction is a single entry in a document's audit trail.
type AuditAction struct {
	Type      string             `bson:"type" json:"type"` // create, update, view, download, delete
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Details   string             `bson:"details,omitempty" json:"details,omitempty"`
}

// AuditLog records who created the document and what happened to it.
type AuditLog struct {
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	CreatedBy primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	Actions   []AuditAction      `bson:"actions" json:"actions"`
}

// Document is a stored compliance document. Status is a cache of the
// expiry classification and is re-derived on every read; StoragePath is
// the canonical object key in the bucket (never reconstructed from URLs).
type Document struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrgID       primitive.ObjectID `bson:"orgId" json:"orgId"`
	Type        DocumentType       `bson:"type" json:"type"`
	Name        string             `bson:"name" json:"name"`
	StoragePath string             `bson:"storagePath" json:"storagePath"`
	Bucket      string             `bson:"bucket" json:"bucket"`
	ContentType string             `bson:"contentType" json:"contentType"`
	Size        int64              `bson:"size" json:"size"`
	Checksum    string             `bson:"checksum,omitempty" json:"checksum,omitempty"`
	ExpiryDate  *time.Time         `bson:"expiryDate,omitempty" json:"expiryDate,omitempty"`
	Status      string             `bson:"status" json:"status"`
	UploadedAt  time.Time          `bson:"uploadedAt" json:"uploadedAt"`
	WorkerID    primitive.ObjectID `bson:"workerId,omitempty" json:"workerId,omitempty"`
	ProjectID   primitive.ObjectID `bson:"projectId,omitempty" json:"projectId,omitempty"`
	Metadata    DocumentMetadata   `bson:"metadata" json:"metadata"`
	AuditLog    AuditLog           `bson:"auditLog" json:"auditLog"`

	// WorkerName is resolved at read time for search results; not stored.
	WorkerName string `bson:"-" json:"workerName,omitempty"`
}

// TypeLabel returns the display label for the document's kind.
func (d *Document) TypeLabel() string {
	if label, ok := DocumentTypeLabels[d.Type]; ok {
		return label
	}
	return string(d.Type)
}

// defaultMetadata is the per-kind descriptive metadata applied on upload.
var defaultMetadata = map[DocumentType]DocumentMetadata{
	DocCarnetSalud: {
		Category:    "documentos_personales",
		Keywords:    []string{"salud", "carnet", "médico", "sanitario"},
		Description: "Carnet de salud del trabajador",
	},
	DocCertSeguridad: {
		Category:    "seguridad_laboral",
		Keywords:    []string{"seguridad", "certificado", "capacitación", "prevención"},
		Description: "Certificado de seguridad laboral",
	},
	DocEntregaEPP: {
		Category:    "seguridad_laboral",
		Keywords:    []string{"epp", "equipo", "protección", "seguridad"},
		Description: "Constancia de entrega de equipo de protección personal",
	},
	DocReciboSueldo: {
		Category:    "documentos_laborales",
		Keywords:    []string{"sueldo", "salario", "pago", "recibo"},
		Description: "Recibo de sueldo mensual",
	},
	DocCertDGI: {
		Category:    "documentos_fiscales",
		Keywords:    []string{"dgi", "impuestos", "certificado", "fiscal"},
		Description: "Certificado DGI",
	},
	DocCertBPS: {
		Category:    "documentos_fiscales",
		Keywords:    []string{"bps", "seguridad social", "certificado"},
		Description: "Certificado BPS",
	},
	DocCertSeguro: {
		Category:    "seguros",
		Keywords:    []string{"seguro", "póliza", "cobertura"},
		Description: "Certificado de seguro",
	},
}

// DefaultMetadata returns a copy of the stock metadata for a document kind.
func DefaultMetadata(t DocumentType) DocumentMetadata {
	md, ok := defaultMetadata[t]
	if !ok {
		return DocumentMetadata{Keywords: []string{}, Tags: []string{}}
	}
	out := md
	out.Keywords = append([]string(nil), md.Keywords...)
	out.Tags = []string{md.Category}
	return out
}
