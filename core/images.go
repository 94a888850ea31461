package core

// ImageProcessor prepares user supplied pictures (photos, logos, banners) for storage.
type ImageProcessor interface {
	Normalize(data []byte) ([]byte, error)
}

// Person identifies the signed-in teacher in log reports.
type Person interface {
	LogPerson() (id, name, email string)
}
