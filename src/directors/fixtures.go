package directors

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v2"
)

// Fixture is one document to seed.
type Fixture struct {
	ID        string                 `yaml:"id"`
	ExpiresIn time.Duration          `yaml:"expires_in"`
	Fields    map[string]interface{} `yaml:"fields"`
}

// LoadFixtures parses a YAML list of fixtures.
func LoadFixtures(r io.Reader) ([]Fixture, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}

	var fixtures []Fixture
	if err := yaml.UnmarshalStrict(data, &fixtures); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	for i, f := range fixtures {
		if f.Fields == nil {
			fixtures[i].Fields = map[string]interface{}{}
		}
	}
	return fixtures, nil
}

// DefaultFixtures returns the sample documents: id:123456 is first saved as a User and
// then replaced by an untyped document, id:123abc stays a User.
func DefaultFixtures() []Fixture {
	return []Fixture{
		{ID: "id:123456", Fields: sampleFields("User")},
		{ID: "id:123456", Fields: sampleFields("")},
		{ID: "id:123abc", Fields: sampleFields("User")},
	}
}

func sampleFields(docType string) map[string]interface{} {
	fields := make(map[string]interface{}, 11)
	for i := 1; i <= 10; i++ {
		fields[fmt.Sprintf("key%d", i)] = fmt.Sprintf("value%d", i)
	}
	if docType != "" {
		fields["type"] = docType
	}
	return fields
}
