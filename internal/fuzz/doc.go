// Package fuzztests houses Go fuzz harnesses for the front of the template
// pipeline (source -> markup -> compile). The goal is to smoke test
// robustness and guard against panics or hangs on arbitrary inputs.
//
// Назначение: загружать байты в FileSet и прогонять их через разбор
// разметки, интерполяцию и компиляцию.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/markup, internal/interp,
// internal/driver, internal/testkit.

package fuzztests
