//go:build linux

package player

/*
#include <mpv/client.h>
#include <stdlib.h>

// osd_overlay builds {name, id, format, data, res_x, res_y, z} and runs it
// with mpv_command_node. With format "none" only the first three keys are
// sent, which removes the overlay.
static int osd_overlay(mpv_handle *h, int64_t id, const char *format,
                       const char *data, int64_t res_x, int64_t res_y, int64_t z) {
    char *keys[7] = {"name", "id", "format", "data", "res_x", "res_y", "z"};
    mpv_node vals[7];

    vals[0].format = MPV_FORMAT_STRING;
    vals[0].u.string = "osd-overlay";
    vals[1].format = MPV_FORMAT_INT64;
    vals[1].u.int64 = id;
    vals[2].format = MPV_FORMAT_STRING;
    vals[2].u.string = (char *)format;
    vals[3].format = MPV_FORMAT_STRING;
    vals[3].u.string = (char *)data;
    vals[4].format = MPV_FORMAT_INT64;
    vals[4].u.int64 = res_x;
    vals[5].format = MPV_FORMAT_INT64;
    vals[5].u.int64 = res_y;
    vals[6].format = MPV_FORMAT_INT64;
    vals[6].u.int64 = z;

    mpv_node_list list = {
        .num    = data ? 7 : 3,
        .values = vals,
        .keys   = keys,
    };
    mpv_node cmd = {.format = MPV_FORMAT_NODE_MAP, .u.list = &list};

    mpv_node result;
    int err = mpv_command_node(h, &cmd, &result);
    if (err >= 0) {
        mpv_free_node_contents(&result);
    }
    return err;
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/gen2brain/go-mpv"
)

// handleOf reads the *C.mpv_handle that is the only field of mpv.Mpv.
func handleOf(m *mpv.Mpv) *C.mpv_handle {
	return *(**C.mpv_handle)(unsafe.Pointer(m))
}

// osdOverlaySet sends the ASS payload as a single string node so it is never
// re-tokenized by mpv's command parser.
func osdOverlaySet(m *mpv.Mpv, id int, data string, resX, resY int) error {
	cFormat := C.CString("ass-events")
	defer C.free(unsafe.Pointer(cFormat))
	cData := C.CString(data)
	defer C.free(unsafe.Pointer(cData))
	rc := C.osd_overlay(handleOf(m), C.int64_t(id), cFormat, cData,
		C.int64_t(resX), C.int64_t(resY), C.int64_t(id))
	if rc < 0 {
		return fmt.Errorf("osd-overlay %d: %s", id, C.GoString(C.mpv_error_string(rc)))
	}
	return nil
}

func osdOverlayRemove(m *mpv.Mpv, id int) error {
	cFormat := C.CString("none")
	defer C.free(unsafe.Pointer(cFormat))
	rc := C.osd_overlay(handleOf(m), C.int64_t(id), cFormat, nil, 0, 0, 0)
	if rc < 0 {
		return fmt.Errorf("osd-overlay remove %d: %s", id, C.GoString(C.mpv_error_string(rc)))
	}
	return nil
}
