package output

// Program is the structured form of one compiled source.
type Program struct {
	Source       string   `json:"source" yaml:"source"`
	Mnemonic     string   `json:"mnemonic" yaml:"mnemonic"`
	Instructions []string `json:"instructions" yaml:"instructions"`
	Cached       bool     `json:"cached,omitempty" yaml:"cached,omitempty"`
}

// RenderPrograms writes compiled programs. Text and table modes emit the
// bare instruction lines, one per line, in input order.
func RenderPrograms(r *Renderer, programs []Program) error {
	var v any = programs
	if len(programs) == 1 {
		v = programs[0]
	}
	if ok, err := r.Structured(v); ok {
		return err
	}

	for _, p := range programs {
		for _, line := range p.Instructions {
			r.Println(line)
		}
	}
	return nil
}
