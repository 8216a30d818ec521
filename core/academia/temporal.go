package academia

import (
	"context"
	"sort"
	"time"
)

// ActiveAt reports whether d is active on the UTC day of t. Both bounds are inclusive;
// a missing bound leaves that side open, so a dictado without bounds is always active.
func ActiveAt(d Dictado, t time.Time) bool {
	day := DateOf(t).Time
	if d.FechaDesde != nil && day.Before(DateOf(*d.FechaDesde).Time) {
		return false
	}
	if d.FechaHasta != nil && day.After(DateOf(*d.FechaHasta).Time) {
		return false
	}
	return true
}

// FilterActive keeps the dictados active at t, ordered by fechaDesde (open start first) then id.
func FilterActive(dictados []Dictado, t time.Time) []Dictado {
	active := make([]Dictado, 0, len(dictados))
	for _, d := range dictados {
		if ActiveAt(d, t) {
			active = append(active, d)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		a, b := active[i].FechaDesde, active[j].FechaDesde
		switch {
		case a == nil && b != nil:
			return true
		case a != nil && b == nil:
			return false
		case a != nil && b != nil && !a.Equal(*b):
			return a.Before(*b)
		}
		return active[i].ID < active[j].ID
	})
	return active
}

// ActiveDictados returns the dictados active at `at`, optionally narrowed by docente and/or curso.
// A zero `at` means now.
func (svc *Service) ActiveDictados(ctx context.Context, at time.Time, filter DictadoFilter) ([]Dictado, error) {
	if at.IsZero() {
		at = svc.now()
	}
	var active []Dictado
	err := svc.read("listing active dictados", func(repo Repository) error {
		all, err := repo.ListDictados(ctx, filter, ListOptions{})
		if err != nil {
			return err
		}
		active = FilterActive(all, at)
		l := newLoader(ctx, repo)
		return each(active, func(d *Dictado) error { return l.populateDictado(d, QueryOptions{}) })
	})
	if err != nil {
		return nil, err
	}
	return active, nil
}

// ActiveDictadosByDocente fails with NotFound for an unknown docente and RoleMismatch for an alumno.
func (svc *Service) ActiveDictadosByDocente(ctx context.Context, dni int64, at time.Time) ([]Dictado, error) {
	p, err := svc.GetPersona(ctx, dni, QueryOptions{})
	if err != nil {
		return nil, err
	}
	if !p.IsDocente() {
		return nil, roleMismatch("docenteId", dni, TipoDocente)
	}
	return svc.ActiveDictados(ctx, at, DictadoFilter{DocenteID: &dni})
}
