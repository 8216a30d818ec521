package academia

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/secundaria/core"
)

// NewCurso contains information needed to create a new Curso.
type NewCurso struct {
	NroLetra string `json:"nroLetra" validate:"required,notblank,max=3"`
	Turno    Turno  `json:"turno" validate:"required,turno"`
}

func (nc *NewCurso) Validate(validate *validator.Validate) error {
	nc.NroLetra = core.CleanString(nc.NroLetra)
	nc.Turno = Turno(core.CleanString(string(nc.Turno)))
	return checkForm(validate, EntityCurso, nc)
}

// UpdateCurso defines what may be provided to modify an existing Curso.
type UpdateCurso struct {
	NroLetra *string `json:"nroLetra" validate:"omitempty,notblank,max=3"`
	Turno    *Turno  `json:"turno" validate:"omitempty,turno"`
}

func (uc *UpdateCurso) Validate(validate *validator.Validate) error {
	uc.NroLetra = cleanOptional(uc.NroLetra)
	if uc.Turno != nil {
		t := Turno(core.CleanString(string(*uc.Turno)))
		uc.Turno = &t
	}
	return checkForm(validate, EntityCurso, uc)
}

type NewMateria struct {
	Nombre      string `json:"nombre" validate:"required,notblank,min=2,max=100"`
	Descripcion string `json:"descripcion" validate:"max=1000"`
}

func (nm *NewMateria) Validate(validate *validator.Validate) error {
	nm.Nombre = core.CleanString(nm.Nombre)
	nm.Descripcion = core.CleanString(nm.Descripcion)
	return checkForm(validate, EntityMateria, nm)
}

// UpdateMateria: an empty Descripcion clears it.
type UpdateMateria struct {
	Nombre      *string `json:"nombre" validate:"omitempty,notblank,min=2,max=100"`
	Descripcion *string `json:"descripcion" validate:"omitempty,max=1000"`
}

func (um *UpdateMateria) Validate(validate *validator.Validate) error {
	um.Nombre = cleanOptional(um.Nombre)
	if um.Descripcion != nil {
		d := core.CleanString(*um.Descripcion)
		um.Descripcion = &d
	}
	return checkForm(validate, EntityMateria, um)
}

// NewPersona creates either an alumno or a docente depending on Tipo.
// CursoID is only legal for alumnos and Especialidad only for docentes.
type NewPersona struct {
	DNI          int64  `json:"dni" validate:"required,min=1000000,max=99999999"`
	Nombre       string `json:"nombre" validate:"required,notblank,min=2,max=100"`
	Apellido     string `json:"apellido" validate:"required,notblank,min=2,max=100"`
	Telefono     string `json:"telefono" validate:"required,min=7,max=20,telefono"`
	Direccion    string `json:"direccion" validate:"required,min=5,max=255"`
	Email        string `json:"email" validate:"required,email,max=254"`
	Tipo         Tipo   `json:"tipo" validate:"required,tipo"`
	CursoID      *int64 `json:"cursoId" validate:"omitempty,min=1"`
	Especialidad string `json:"especialidad" validate:"max=100"`
}

func (np *NewPersona) Validate(validate *validator.Validate) error {
	np.Nombre = core.CleanString(np.Nombre)
	np.Apellido = core.CleanString(np.Apellido)
	np.Telefono = core.CleanString(np.Telefono)
	np.Direccion = core.CleanString(np.Direccion)
	np.Email = core.CleanString(np.Email, true /* lower */)
	np.Tipo = Tipo(core.CleanString(string(np.Tipo), true /* lower */))
	np.Especialidad = core.CleanString(np.Especialidad)
	if err := checkForm(validate, EntityPersona, np); err != nil {
		return err
	}
	return np.checkRol()
}

func (np *NewPersona) checkRol() error {
	switch {
	case np.Tipo == TipoDocente && np.CursoID != nil:
		return roleMismatch("cursoId", np.DNI, TipoAlumno)
	case np.Tipo == TipoAlumno && np.Especialidad != "":
		return roleMismatch("especialidad", np.DNI, TipoDocente)
	}
	return nil
}

// Rol builds the role variant. Call after Validate.
func (np NewPersona) Rol() Rol {
	if np.Tipo == TipoDocente {
		return Docente{Especialidad: np.Especialidad}
	}
	return Alumno{CursoID: np.CursoID}
}

// UpdatePersona defines what may be provided to modify an existing Persona.
// Tipo may be sent but must match the stored one.
type UpdatePersona struct {
	Nombre       *string    `json:"nombre" validate:"omitempty,notblank,min=2,max=100"`
	Apellido     *string    `json:"apellido" validate:"omitempty,notblank,min=2,max=100"`
	Telefono     *string    `json:"telefono" validate:"omitempty,min=7,max=20,telefono"`
	Direccion    *string    `json:"direccion" validate:"omitempty,min=5,max=255"`
	Email        *string    `json:"email" validate:"omitempty,email,max=254"`
	Tipo         *Tipo      `json:"tipo" validate:"omitempty,tipo"`
	CursoID      NullableID `json:"cursoId" validate:"-"`
	Especialidad *string    `json:"especialidad" validate:"omitempty,max=100"`
}

func (up *UpdatePersona) Validate(validate *validator.Validate) error {
	up.Nombre = cleanOptional(up.Nombre)
	up.Apellido = cleanOptional(up.Apellido)
	up.Telefono = cleanOptional(up.Telefono)
	up.Direccion = cleanOptional(up.Direccion)
	up.Email = cleanOptional(up.Email, true /* lower */)
	if up.Especialidad != nil {
		e := core.CleanString(*up.Especialidad)
		up.Especialidad = &e
	}
	if up.CursoID.ID != nil && *up.CursoID.ID < 1 {
		return invalidField(EntityPersona, "cursoId", core.NewFieldValidationError("cursoId", "cursoId must be 1 or greater"))
	}
	return checkForm(validate, EntityPersona, up)
}

// apply merges the update into orig, keeping the role variant intact.
func (up UpdatePersona) apply(orig Persona) (Persona, error) {
	p := orig
	if up.Tipo != nil && *up.Tipo != orig.Tipo() {
		return Persona{}, invalidField(EntityPersona, "tipo", core.NewFieldValidationError("tipo", "tipo cannot be changed"))
	}
	setString(&p.Nombre, up.Nombre)
	setString(&p.Apellido, up.Apellido)
	setString(&p.Telefono, up.Telefono)
	setString(&p.Direccion, up.Direccion)
	setString(&p.Email, up.Email)

	switch rol := orig.Rol.(type) {
	case Alumno:
		if up.Especialidad != nil && *up.Especialidad != "" {
			return Persona{}, roleMismatch("especialidad", orig.DNI, TipoDocente)
		}
		if up.CursoID.Set {
			rol.CursoID = up.CursoID.ID
		}
		p.Rol = rol
	case Docente:
		if up.CursoID.ID != nil {
			return Persona{}, roleMismatch("cursoId", orig.DNI, TipoAlumno)
		}
		if up.Especialidad != nil {
			rol.Especialidad = *up.Especialidad
		}
		p.Rol = rol
	}
	return p, nil
}

type NewDictado struct {
	Anio        int    `json:"anio" validate:"required,min=2000,max=2100"`
	DiasCursado string `json:"diasCursado" validate:"required,notblank,min=3,max=100"`
	FechaDesde  *Date  `json:"fechaDesde"`
	FechaHasta  *Date  `json:"fechaHasta"`
	CursoID     int64  `json:"cursoId" validate:"required,min=1"`
	MateriaID   int64  `json:"materiaId" validate:"required,min=1"`
	DocenteID   int64  `json:"docenteId" validate:"required,min=1000000,max=99999999"`
}

func (nd *NewDictado) Validate(validate *validator.Validate) error {
	nd.DiasCursado = core.CleanString(nd.DiasCursado)
	if err := checkForm(validate, EntityDictado, nd); err != nil {
		return err
	}
	return checkWindow(nd.FechaDesde.ptr(), nd.FechaHasta.ptr())
}

func (nd NewDictado) references() References {
	return References{
		CursoID:   &nd.CursoID,
		MateriaID: &nd.MateriaID,
		DocenteID: &nd.DocenteID,
	}
}

// UpdateDictado: the docente of an orphaned dictado may be reassigned; it cannot be cleared.
type UpdateDictado struct {
	Anio        *int    `json:"anio" validate:"omitempty,min=2000,max=2100"`
	DiasCursado *string `json:"diasCursado" validate:"omitempty,notblank,min=3,max=100"`
	FechaDesde  *Date   `json:"fechaDesde"`
	FechaHasta  *Date   `json:"fechaHasta"`
	CursoID     *int64  `json:"cursoId" validate:"omitempty,min=1"`
	MateriaID   *int64  `json:"materiaId" validate:"omitempty,min=1"`
	DocenteID   *int64  `json:"docenteId" validate:"omitempty,min=1000000,max=99999999"`
}

func (ud *UpdateDictado) Validate(validate *validator.Validate) error {
	ud.DiasCursado = cleanOptional(ud.DiasCursado)
	return checkForm(validate, EntityDictado, ud)
}

func (ud UpdateDictado) apply(orig Dictado) (Dictado, error) {
	d := orig
	if ud.Anio != nil {
		d.Anio = *ud.Anio
	}
	setString(&d.DiasCursado, ud.DiasCursado)
	if ud.FechaDesde != nil {
		d.FechaDesde = ud.FechaDesde.ptr()
	}
	if ud.FechaHasta != nil {
		d.FechaHasta = ud.FechaHasta.ptr()
	}
	if ud.CursoID != nil {
		d.CursoID = *ud.CursoID
	}
	if ud.MateriaID != nil {
		d.MateriaID = *ud.MateriaID
	}
	if ud.DocenteID != nil {
		d.DocenteID = int64Ptr(*ud.DocenteID)
	}
	if err := checkWindow(d.FechaDesde, d.FechaHasta); err != nil {
		return Dictado{}, err
	}
	return d, nil
}

func (ud UpdateDictado) references() References {
	return References{CursoID: ud.CursoID, MateriaID: ud.MateriaID, DocenteID: ud.DocenteID}
}

type NewExamen struct {
	FechaExamen *Date  `json:"fechaExamen" validate:"required"`
	Temas       string `json:"temas" validate:"required,notblank,min=5,max=800"`
	Copias      int    `json:"copias" validate:"min=0"`
	DictadoID   int64  `json:"dictadoId" validate:"required,min=1"`
}

func (ne *NewExamen) Validate(validate *validator.Validate) error {
	ne.Temas = core.CleanString(ne.Temas)
	return checkForm(validate, EntityExamen, ne)
}

type UpdateExamen struct {
	FechaExamen *Date   `json:"fechaExamen"`
	Temas       *string `json:"temas" validate:"omitempty,notblank,min=5,max=800"`
	Copias      *int    `json:"copias" validate:"omitempty,min=0"`
	DictadoID   *int64  `json:"dictadoId" validate:"omitempty,min=1"`
}

func (ue *UpdateExamen) Validate(validate *validator.Validate) error {
	ue.Temas = cleanOptional(ue.Temas)
	return checkForm(validate, EntityExamen, ue)
}

func (ue UpdateExamen) apply(orig Examen) Examen {
	e := orig
	if ue.FechaExamen != nil {
		e.FechaExamen = ue.FechaExamen.Time
	}
	setString(&e.Temas, ue.Temas)
	if ue.Copias != nil {
		e.Copias = *ue.Copias
	}
	if ue.DictadoID != nil {
		e.DictadoID = *ue.DictadoID
	}
	return e
}

// NewEvaluacion is also the entry type of a batch create.
type NewEvaluacion struct {
	ExamenID    int64    `json:"examenId" validate:"required,min=1"`
	AlumnoID    int64    `json:"alumnoId" validate:"required,min=1000000,max=99999999"`
	Nota        *float64 `json:"nota" validate:"required,min=0,max=10"`
	Observacion string   `json:"observacion" validate:"max=500"`
}

func (ne *NewEvaluacion) Validate(validate *validator.Validate) error {
	ne.Observacion = core.CleanString(ne.Observacion)
	return checkForm(validate, EntityEvaluacion, ne)
}

// UpdateEvaluacion: reassigning ExamenID or AlumnoID re-runs the course and uniqueness checks.
type UpdateEvaluacion struct {
	Nota        *float64 `json:"nota" validate:"omitempty,min=0,max=10"`
	Observacion *string  `json:"observacion" validate:"omitempty,max=500"`
	ExamenID    *int64   `json:"examenId" validate:"omitempty,min=1"`
	AlumnoID    *int64   `json:"alumnoId" validate:"omitempty,min=1000000,max=99999999"`
}

func (ue *UpdateEvaluacion) Validate(validate *validator.Validate) error {
	if ue.Observacion != nil {
		o := core.CleanString(*ue.Observacion)
		ue.Observacion = &o
	}
	return checkForm(validate, EntityEvaluacion, ue)
}

func (ue UpdateEvaluacion) apply(orig Evaluacion) Evaluacion {
	e := orig
	if ue.Nota != nil {
		e.Nota = *ue.Nota
	}
	if ue.Observacion != nil {
		e.Observacion = *ue.Observacion
	}
	if ue.ExamenID != nil {
		e.ExamenID = *ue.ExamenID
	}
	if ue.AlumnoID != nil {
		e.AlumnoID = *ue.AlumnoID
	}
	return e
}

// BatchUpdateEntry is one element of a batch update.
type BatchUpdateEntry struct {
	ID          int64    `json:"id" validate:"required,min=1"`
	Nota        *float64 `json:"nota" validate:"omitempty,min=0,max=10"`
	Observacion *string  `json:"observacion" validate:"omitempty,max=500"`
}

func (be *BatchUpdateEntry) Validate(validate *validator.Validate) error {
	if be.Observacion != nil {
		o := core.CleanString(*be.Observacion)
		be.Observacion = &o
	}
	return checkForm(validate, EntityEvaluacion, be)
}

func (be BatchUpdateEntry) update() UpdateEvaluacion {
	return UpdateEvaluacion{Nota: be.Nota, Observacion: be.Observacion}
}

// helpers

// checkForm runs the struct validation and reports the first failing field as InvalidField.
// The validator.ValidationErrors stay reachable through errors.As.
func checkForm(validate *validator.Validate, entity EntityKind, form interface{}) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var field string
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		field = verrs[0].Field()
	}
	return invalidField(entity, field, err)
}

func checkWindow(desde, hasta *time.Time) error {
	if desde != nil && hasta != nil && hasta.Before(*desde) {
		return invalidField(EntityDictado, "fechaHasta", core.NewFieldValidationError("fechaHasta", "fechaHasta must not be before fechaDesde"))
	}
	return nil
}

// cleanOptional trims a provided string. A blank value stays set so the form tags reject it.
func cleanOptional(s *string, lower ...bool) *string {
	if s == nil {
		return nil
	}
	c := core.CleanString(*s, lower...)
	return &c
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
