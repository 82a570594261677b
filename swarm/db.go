package swarm

import "fmt"

// Names of the sql tables that an Optimizer with the DB option records
// into.  Every row is tagged with the run id, so one database can hold many
// runs.
const (
	// TblParticles holds every particle's position and objective value at
	// each iteration.
	TblParticles = "swarmparticles"
	// TblParticlesBest holds every particle's personal best at each
	// iteration.
	TblParticlesBest = "swarmparticlesbest"
	// TblBest holds the swarm-wide best at each iteration.
	TblBest = "swarmbest"
)

func (o *Optimizer) initdb() error {
	s := "CREATE TABLE IF NOT EXISTS " + TblParticles + " (run TEXT,particle INTEGER,iter INTEGER,val REAL"
	s += o.xdbsql("define")
	s += ");"
	if _, err := o.db.Exec(s); err != nil {
		return fmt.Errorf("swarm: creating %v: %w", TblParticles, err)
	}

	s = "CREATE TABLE IF NOT EXISTS " + TblParticlesBest + " (run TEXT,particle INTEGER,iter INTEGER,best REAL"
	s += o.xdbsql("define")
	s += ");"
	if _, err := o.db.Exec(s); err != nil {
		return fmt.Errorf("swarm: creating %v: %w", TblParticlesBest, err)
	}

	s = "CREATE TABLE IF NOT EXISTS " + TblBest + " (run TEXT,iter INTEGER,val REAL"
	s += o.xdbsql("define")
	s += ");"
	if _, err := o.db.Exec(s); err != nil {
		return fmt.Errorf("swarm: creating %v: %w", TblBest, err)
	}
	return nil
}

// xdbsql builds the x0,x1,... position-column fragment for sql statements:
// "define" for CREATE TABLE, "x" for column lists, "?" for placeholders.
func (o *Optimizer) xdbsql(op string) string {
	s := ""
	for i := range o.Low {
		switch op {
		case "?":
			s += ",?"
		case "define":
			s += fmt.Sprintf(",x%v REAL", i)
		case "x":
			s += fmt.Sprintf(",x%v", i)
		default:
			panic("invalid db op " + op)
		}
	}
	return s
}

func (o *Optimizer) updateDb() error {
	if o.db == nil {
		return nil
	}

	tx, err := o.db.Begin()
	if err != nil {
		return err
	}

	s0 := "INSERT INTO " + TblParticles + " (run,particle,iter,val" + o.xdbsql("x") + ") VALUES (?,?,?,?" + o.xdbsql("?") + ");"
	s1 := "INSERT INTO " + TblParticlesBest + " (run,particle,iter,best" + o.xdbsql("x") + ") VALUES (?,?,?,?" + o.xdbsql("?") + ");"
	for _, p := range o.Pop {
		args := append([]any{o.runid, p.Id, o.count, p.Val}, pos2iface(p.Pos)...)
		if _, err := tx.Exec(s0, args...); err != nil {
			tx.Rollback()
			return err
		}

		args = append([]any{o.runid, p.Id, o.count, p.Best.Val}, pos2iface(p.Best.Pos())...)
		if _, err := tx.Exec(s1, args...); err != nil {
			tx.Rollback()
			return err
		}
	}

	s2 := "INSERT INTO " + TblBest + " (run,iter,val" + o.xdbsql("x") + ") VALUES (?,?,?" + o.xdbsql("?") + ");"
	best := o.Best()
	args := append([]any{o.runid, o.count, best.Val}, pos2iface(best.Pos())...)
	if _, err := tx.Exec(s2, args...); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func pos2iface(pos []float64) []any {
	iface := make([]any, 0, len(pos))
	for _, v := range pos {
		iface = append(iface, v)
	}
	return iface
}
