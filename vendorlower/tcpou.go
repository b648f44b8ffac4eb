package vendorlower

import "github.com/plx-lang/plx/ir"

// TcPOU emits Beckhoff TwinCAT .tcpou / .tsproj XML documents (spec §6.2).
// TwinCAT POUs natively support EXTENDS, so unlike L5X and SimaticML the
// IR's parent link is carried through rather than flattened away.
type TcPOU struct{}

func (TcPOU) Name() string { return "TcPOU" }

func (TcPOU) RequiresFlattening() bool { return false }

func (TcPOU) Emit(p *ir.Project) ([]byte, error) {
	if err := checkProject(p); err != nil {
		return nil, err
	}
	return nil, ErrNotImplemented
}
