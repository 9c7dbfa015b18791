package questionnaire

import "github.com/invopop/jsonschema"

// DocumentSchema describes the questionnaire upload document so producers of
// session artifacts can validate against the same shape the session loads.
func DocumentSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	return reflector.Reflect(&Questionnaire{})
}
